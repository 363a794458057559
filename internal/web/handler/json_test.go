package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStrict(t *testing.T) {
	type payload struct {
		Name  string  `json:"name"`
		Color *string `json:"color"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"editor"}`, false},
		{"unknown field", `{"name":"editor","isSystem":true}`, true},
		{"wrong type", `{"name":1}`, true},
		{"not json", `name=editor`, true},
		{"trailing value", `{"name":"a"}{"name":"b"}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload

			err := DecodeStrict([]byte(tt.body), &p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "editor", p.Name)
			assert.Nil(t, p.Color)
		})
	}
}
