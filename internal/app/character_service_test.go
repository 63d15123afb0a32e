package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cronicas-api/internal/model"
	"cronicas-api/internal/platform/logger"
	"cronicas-api/internal/repository"
	"cronicas-api/internal/testutil"
)

func newCharacterService(t *testing.T, pub EventPublisher) *CharacterService {
	t.Helper()
	return NewCharacterService(repository.NewCharacterRepository(testutil.NewDB(t)), pub, logger.Discard())
}

func decodeCharacterFields(t *testing.T, body string) CharacterFields {
	t.Helper()
	var f CharacterFields
	require.NoError(t, json.Unmarshal([]byte(body), &f))
	return f
}

func TestCreateCharacterRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newCharacterService(t, nil)

	created, err := s.CreateCharacter(ctx, 4, decodeCharacterFields(t, `{
		"nombre":"Lía","apellido":"Vega","genero":"F","edad":31,"ocupacion":"Detective",
		"etnia":"Andina","descripcion":"Alta","historia":"Nació en Quito","notas":"ninguna",
		"cronica":"Sombras","juego":"Cthulhu","inventario":["revólver",{"nombre":"linterna","cantidad":2}]
	}`))
	require.NoError(t, err)

	got, err := s.GetCharacter(ctx, 4, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lía", got.Nombre)
	assert.Equal(t, "Vega", got.Apellido)
	assert.Equal(t, 31, *got.Edad)
	assert.Equal(t, "Cthulhu", *got.Juego)
	inv := got.Inventory()
	require.Len(t, inv, 2)
	assert.Equal(t, "revólver", inv.Label(0))
	assert.JSONEq(t, `{"nombre":"linterna","cantidad":2}`, string(inv[1]))
}

func TestCreateCharacterDefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	s := newCharacterService(t, nil)

	created, err := s.CreateCharacter(ctx, 1, decodeCharacterFields(t, `{"nombre":"A","apellido":"B","inventario":"no es lista"}`))
	require.NoError(t, err)
	assert.Empty(t, created.Inventory())
	assert.Equal(t, "[]", created.InventarioRaw)

	for _, body := range []string{`{"apellido":"B"}`, `{"nombre":"  ","apellido":"B"}`, `{"nombre":"A","apellido":null}`, `{"nombre":"A","apellido":"B","edad":-1}`} {
		_, err := s.CreateCharacter(ctx, 1, decodeCharacterFields(t, body))
		assert.ErrorIs(t, err, ErrInvalidInput, body)
	}

	list, err := s.ListCharacters(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListCharactersInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newCharacterService(t, nil)
	for _, name := range []string{"Zoe", "Ana", "Mia"} {
		_, err := s.CreateCharacter(ctx, 1, CharacterFields{Nombre: Some(name), Apellido: Some("X")})
		require.NoError(t, err)
	}
	_, err := s.CreateCharacter(ctx, 2, CharacterFields{Nombre: Some("Otro"), Apellido: Some("Y")})
	require.NoError(t, err)

	list, err := s.ListCharacters(ctx, 1)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Nombre)
	}
	assert.Equal(t, []string{"Zoe", "Ana", "Mia"}, names)
}

func TestUpdateCharacterPartial(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s := newCharacterService(t, pub)
	created, err := s.CreateCharacter(ctx, 1, decodeCharacterFields(t, `{"nombre":"A","apellido":"B","notas":"n","edad":20,"inventario":["x"]}`))
	require.NoError(t, err)

	patch := decodeCharacterFields(t, `{"edad":21,"inventario":{"bad":true},"historia":"h"}`)
	for i := 0; i < 2; i++ {
		_, err = s.UpdateCharacter(ctx, 1, created.ID, patch)
		require.NoError(t, err)
	}

	got, err := s.GetCharacter(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Nombre)
	assert.Equal(t, "n", *got.Notas)
	assert.Equal(t, 21, *got.Edad)
	assert.Equal(t, "h", *got.Historia)
	assert.Empty(t, got.Inventory())

	_, err = s.UpdateCharacter(ctx, 1, created.ID, decodeCharacterFields(t, `{"nombre":"","notas":"cambiada"}`))
	assert.ErrorIs(t, err, ErrInvalidInput)
	got, err = s.GetCharacter(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "n", *got.Notas)

	assert.Equal(t, []string{model.AuditCharacterCreated, model.AuditCharacterUpdated, model.AuditCharacterUpdated}, pub.actions())
}

func TestCharacterOwnershipAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newCharacterService(t, nil)
	created, err := s.CreateCharacter(ctx, 1, CharacterFields{Nombre: Some("A"), Apellido: Some("B"), Notas: Some("privado")})
	require.NoError(t, err)

	_, err = s.GetCharacter(ctx, 2, created.ID)
	assert.ErrorIs(t, err, ErrCharacterNotFound)
	_, err = s.UpdateCharacter(ctx, 2, created.ID, CharacterFields{Notas: Null[string]()})
	assert.ErrorIs(t, err, ErrCharacterNotFound)
	assert.ErrorIs(t, s.DeleteCharacter(ctx, 2, created.ID), ErrCharacterNotFound)

	require.NoError(t, s.DeleteCharacter(ctx, 1, created.ID))
	_, err = s.GetCharacter(ctx, 1, created.ID)
	assert.ErrorIs(t, err, ErrCharacterNotFound)
	assert.ErrorIs(t, s.DeleteCharacter(ctx, 1, created.ID), ErrCharacterNotFound)
}

func TestOptionalUnmarshal(t *testing.T) {
	var f struct {
		A Optional[string] `json:"a"`
		B Optional[string] `json:"b"`
		C Optional[int]    `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":null}`), &f))
	assert.True(t, f.A.Set)
	assert.Equal(t, "x", *f.A.Value)
	assert.True(t, f.B.Set)
	assert.Nil(t, f.B.Value)
	assert.False(t, f.C.Set)

	assert.Error(t, json.Unmarshal([]byte(`{"c":"doce"}`), &f))
}
