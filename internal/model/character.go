package model

import (
	"bytes"
	"encoding/json"
)

// Character is a player character sheet, stored in the "personajes" table.
// The inventory is kept as a JSON array in a text column; use Inventory/SetInventory.
type Character struct {
	ID            uint    `gorm:"column:idpersonaje;primaryKey" json:"idpersonaje"`
	UserID        uint    `gorm:"column:iduser;not null;index" json:"iduser"`
	User          *User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Cronica       *string `gorm:"type:text" json:"cronica"`
	Juego         *string `gorm:"type:text" json:"juego"`
	Nombre        string  `gorm:"size:100;not null" json:"nombre"`
	Apellido      string  `gorm:"size:100;not null" json:"apellido"`
	Genero        *string `gorm:"size:50" json:"genero"`
	Edad          *int    `json:"edad"`
	Ocupacion     *string `gorm:"size:100" json:"ocupacion"`
	Etnia         *string `gorm:"size:100" json:"etnia"`
	Descripcion   *string `gorm:"type:text" json:"descripcion"`
	Historia      *string `gorm:"type:text" json:"historia"`
	InventarioRaw string  `gorm:"column:inventario;type:text" json:"-"`
	Notas         *string `gorm:"type:text" json:"notas"`
}

func (Character) TableName() string { return "personajes" }

// Inventory is an ordered list of heterogeneous item descriptors. It is never nil once
// produced by ParseInventory.
type Inventory []json.RawMessage

// ParseInventory accepts a JSON array and returns its items in order. Anything else
// (absent, null, object, scalar, malformed) yields the empty inventory.
func ParseInventory(raw []byte) Inventory {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Inventory{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return Inventory{}
	}
	out := make(Inventory, 0, len(items))
	for _, item := range items {
		out = append(out, append(json.RawMessage(nil), item...))
	}
	return out
}

func (c *Character) Inventory() Inventory {
	return ParseInventory([]byte(c.InventarioRaw))
}

func (c *Character) SetInventory(inv Inventory) {
	if len(inv) == 0 {
		c.InventarioRaw = "[]"
		return
	}
	b, _ := json.Marshal(inv)
	c.InventarioRaw = string(b)
}

// Label renders an item for text and PDF output: strings verbatim, everything else as
// compact JSON.
func (inv Inventory) Label(i int) string {
	item := inv[i]
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, item); err != nil {
		return string(item)
	}
	return buf.String()
}
