package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"cronicas-api/internal/model"
	"cronicas-api/internal/repository"
)

type CharacterService struct {
	characterRepo *repository.CharacterRepository
	audit         auditor
}

// CharacterFields is both the create payload and the partial update payload.
type CharacterFields struct {
	Cronica     Optional[string]          `json:"cronica"`
	Juego       Optional[string]          `json:"juego"`
	Nombre      Optional[string]          `json:"nombre"`
	Apellido    Optional[string]          `json:"apellido"`
	Genero      Optional[string]          `json:"genero"`
	Edad        Optional[int]             `json:"edad"`
	Ocupacion   Optional[string]          `json:"ocupacion"`
	Etnia       Optional[string]          `json:"etnia"`
	Descripcion Optional[string]          `json:"descripcion"`
	Historia    Optional[string]          `json:"historia"`
	Inventario  Optional[json.RawMessage] `json:"inventario"`
	Notas       Optional[string]          `json:"notas"`
}

func NewCharacterService(characterRepo *repository.CharacterRepository, publisher EventPublisher, log *slog.Logger) *CharacterService {
	return &CharacterService{
		characterRepo: characterRepo,
		audit:         newAuditor(publisher, log),
	}
}

func (s *CharacterService) ListCharacters(ctx context.Context, userID uint) ([]model.Character, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.characterRepo.ListByUserID(ctx, userID)
}

func (s *CharacterService) CreateCharacter(ctx context.Context, userID uint, fields CharacterFields) (*model.Character, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	nombre, err := requiredText("nombre", fields.Nombre)
	if err != nil {
		return nil, err
	}
	apellido, err := requiredText("apellido", fields.Apellido)
	if err != nil {
		return nil, err
	}

	character := &model.Character{UserID: userID, Nombre: nombre, Apellido: apellido}
	character.SetInventory(nil)
	if err := applyCharacterFields(character, fields); err != nil {
		return nil, err
	}

	err = s.characterRepo.Transaction(ctx, func(repo *repository.CharacterRepository) error {
		return repo.Create(ctx, character)
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, model.AuditCharacterCreated, userID, character.ID, "")
	return character, nil
}

func (s *CharacterService) GetCharacter(ctx context.Context, userID, characterID uint) (*model.Character, error) {
	if userID == 0 || characterID == 0 {
		return nil, ErrInvalidInput
	}
	character, err := s.characterRepo.GetByIDAndUserID(ctx, characterID, userID)
	if err != nil {
		return nil, err
	}
	if character == nil {
		return nil, ErrCharacterNotFound
	}
	return character, nil
}

func (s *CharacterService) UpdateCharacter(ctx context.Context, userID, characterID uint, fields CharacterFields) (*model.Character, error) {
	if userID == 0 || characterID == 0 {
		return nil, ErrInvalidInput
	}

	var updated *model.Character
	err := s.characterRepo.Transaction(ctx, func(repo *repository.CharacterRepository) error {
		character, err := repo.GetByIDAndUserID(ctx, characterID, userID)
		if err != nil {
			return err
		}
		if character == nil {
			return ErrCharacterNotFound
		}

		if fields.Nombre.Set {
			if character.Nombre, err = requiredText("nombre", fields.Nombre); err != nil {
				return err
			}
		}
		if fields.Apellido.Set {
			if character.Apellido, err = requiredText("apellido", fields.Apellido); err != nil {
				return err
			}
		}
		if err := applyCharacterFields(character, fields); err != nil {
			return err
		}

		if err := repo.Save(ctx, character); err != nil {
			return err
		}
		updated = character
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, model.AuditCharacterUpdated, userID, characterID, "")
	return updated, nil
}

func (s *CharacterService) DeleteCharacter(ctx context.Context, userID, characterID uint) error {
	if userID == 0 || characterID == 0 {
		return ErrInvalidInput
	}

	err := s.characterRepo.Transaction(ctx, func(repo *repository.CharacterRepository) error {
		deleted, err := repo.DeleteByIDAndUserID(ctx, characterID, userID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrCharacterNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.record(ctx, model.AuditCharacterDeleted, userID, characterID, "")
	return nil
}

// applyCharacterFields merges every optional field except nombre/apellido.
func applyCharacterFields(c *model.Character, fields CharacterFields) error {
	if fields.Edad.Value != nil && *fields.Edad.Value < 0 {
		return invalid("edad", "must not be negative")
	}

	fields.Cronica.apply(&c.Cronica)
	fields.Juego.apply(&c.Juego)
	fields.Genero.apply(&c.Genero)
	fields.Edad.apply(&c.Edad)
	fields.Ocupacion.apply(&c.Ocupacion)
	fields.Etnia.apply(&c.Etnia)
	fields.Descripcion.apply(&c.Descripcion)
	fields.Historia.apply(&c.Historia)
	fields.Notas.apply(&c.Notas)

	if fields.Inventario.Set {
		var raw []byte
		if fields.Inventario.Value != nil {
			raw = *fields.Inventario.Value
		}
		c.SetInventory(model.ParseInventory(raw))
	}
	return nil
}
