package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResource_Validate(t *testing.T) {
	tests := []struct {
		name    string
		kind    ResourceKind
		buffer  int
		wantErr bool
	}{
		{name: "staff without buffer", kind: ResourceKindStaff, buffer: 0},
		{name: "salon with max buffer", kind: ResourceKindSalon, buffer: MaxBufferMinutes},
		{name: "negative buffer", kind: ResourceKindStaff, buffer: -5, wantErr: true},
		{name: "buffer above max", kind: ResourceKindArtist, buffer: MaxBufferMinutes + 1, wantErr: true},
		{name: "unknown kind", kind: ResourceKind("robot"), buffer: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resource{ID: uuid.New(), Name: "Maria", Kind: tt.kind, BufferMinutes: tt.buffer}
			err := r.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidWindow))
				return
			}
			assert.NoError(t, err)
		})
	}
}
