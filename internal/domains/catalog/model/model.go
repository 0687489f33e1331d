// Package model holds the Item catalog entity.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ABCClass is the velocity tier the ABC Classifier assigns.
type ABCClass string

const (
	ABCClassA ABCClass = "A"
	ABCClassB ABCClass = "B"
	ABCClassC ABCClass = "C"
)

// Attributes is an opaque JSON-typed bag. The core never inspects its keys;
// validation of shape is the caller's responsibility.
type Attributes map[string]interface{}

func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *Attributes) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return ErrInvalidAttributes
	}
	return json.Unmarshal(bytes, a)
}

// Item is the catalog entity: a SKU plus display metadata.
type Item struct {
	ID           uuid.UUID  `db:"id"`
	SKU          string     `db:"sku"`
	Name         string     `db:"name"`
	Attributes   Attributes `db:"attributes"`
	IsSerialized bool       `db:"is_serialized"`
	ABCClass     ABCClass   `db:"abc_class"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}
