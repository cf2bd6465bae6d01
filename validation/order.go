// Package validation checks request payloads against JSON schemas.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"jwtpizza/apperror"
)

const orderSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["franchiseId", "storeId", "items"],
  "properties": {
    "franchiseId": {"type": "integer", "minimum": 1},
    "storeId": {"type": "integer", "minimum": 1},
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["menuId"],
        "properties": {
          "menuId": {"type": "integer", "minimum": 1},
          "description": {"type": "string"},
          "price": {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`

const menuItemSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "price"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "image": {"type": "string"},
    "price": {"type": "number", "exclusiveMinimum": 0}
  }
}`

var (
	orderLoader    = gojsonschema.NewStringLoader(orderSchema)
	menuItemLoader = gojsonschema.NewStringLoader(menuItemSchema)
)

// Order validates an order submission. v is anything that marshals to the order JSON.
func Order(v interface{}) error {
	return validate(orderLoader, v, "invalid order")
}

// MenuItem validates a menu item.
func MenuItem(v interface{}) error {
	return validate(menuItemLoader, v, "invalid menu item")
}

func validate(schema gojsonschema.JSONLoader, v interface{}, prefix string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(v))
	if err != nil {
		return apperror.Wrap(apperror.Invalid, prefix+": malformed payload", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperror.New(apperror.Invalid, fmt.Sprintf("%s: %s", prefix, strings.Join(errs, "; ")))
	}
	return nil
}
