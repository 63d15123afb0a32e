// Package export renders sessions and character sheets as downloadable documents.
//
// Rendering is pure: callers hand over an already loaded record and get bytes back.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"cronicas-api/internal/model"
)

const notAvailable = "N/A"

type Field struct {
	Label string
	Value string
}

// Section is a heading followed by free text. Body may contain newlines; an empty body
// renders only the heading.
type Section struct {
	Heading string
	Body    string
}

type Document struct {
	Title    string
	Fields   []Field
	Sections []Section
	// BaseName is the attachment filename without extension.
	BaseName string
}

func (d Document) Filename(ext string) string {
	return d.BaseName + "." + ext
}

func FromSession(s model.Session) Document {
	numero := notAvailable
	if s.NumeroDeSesion != nil {
		numero = strconv.Itoa(*s.NumeroDeSesion)
	}
	return Document{
		Title: fmt.Sprintf("%s - Sesión %s", orNA(s.Cronica), numero),
		Fields: []Field{
			{Label: "Crónica", Value: orNA(s.Cronica)},
			{Label: "Juego", Value: orNA(s.Juego)},
			{Label: "Número de sesión", Value: numero},
			{Label: "Fecha", Value: s.Fecha.Format(model.DateLayout)},
		},
		Sections: []Section{
			{Heading: "Resumen", Body: orNA(s.Resumen)},
		},
		BaseName: fmt.Sprintf("sesion_%d", s.ID),
	}
}

func FromCharacter(c model.Character) Document {
	edad := notAvailable
	if c.Edad != nil {
		edad = strconv.Itoa(*c.Edad)
	}

	inv := c.Inventory()
	items := make([]string, 0, len(inv))
	for i := range inv {
		items = append(items, "- "+inv.Label(i))
	}

	return Document{
		Title: strings.TrimSpace(c.Nombre + " " + c.Apellido),
		Fields: []Field{
			{Label: "Crónica", Value: orNA(c.Cronica)},
			{Label: "Juego", Value: orNA(c.Juego)},
			{Label: "Género", Value: orNA(c.Genero)},
			{Label: "Edad", Value: edad},
			{Label: "Ocupación", Value: orNA(c.Ocupacion)},
			{Label: "Etnia", Value: orNA(c.Etnia)},
		},
		Sections: []Section{
			{Heading: "Descripción", Body: orNA(c.Descripcion)},
			{Heading: "Historia", Body: orNA(c.Historia)},
			{Heading: "Inventario", Body: strings.Join(items, "\n")},
			{Heading: "Notas", Body: orNA(c.Notas)},
		},
		BaseName: sanitizeFilename(c.Nombre + "_" + c.Apellido),
	}
}

func orNA(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return notAvailable
	}
	return *s
}

// sanitizeFilename keeps the name safe inside a quoted Content-Disposition value.
func sanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\'', ':', '*', '?', '<', '>', '|':
			return '_'
		}
		if r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "_" {
		return "documento"
	}
	return name
}
