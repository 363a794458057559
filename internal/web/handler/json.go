package handler

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// DecodeStrict decodes a JSON body into v, rejecting unknown fields and trailing data.
func DecodeStrict(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}

	if dec.More() {
		return ErrTrailingData
	}

	return nil
}

// Error writes the JSON error shape shared by every endpoint.
func Error(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
