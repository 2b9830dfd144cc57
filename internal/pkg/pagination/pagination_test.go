package pagination

import (
	"testing"

	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		limit   string
		want    Params
		wantErr error
	}{
		{
			name: "defaults when empty",
			want: Params{Page: 1, Limit: 10},
		},
		{
			name:  "explicit values",
			page:  "3",
			limit: "25",
			want:  Params{Page: 3, Limit: 25},
		},
		{
			name:    "page zero rejected",
			page:    "0",
			wantErr: xerr.ErrInvalidPage,
		},
		{
			name:    "negative page rejected",
			page:    "-2",
			wantErr: xerr.ErrInvalidPage,
		},
		{
			name:    "non-numeric page rejected",
			page:    "abc",
			wantErr: xerr.ErrInvalidPage,
		},
		{
			name:    "limit zero rejected",
			limit:   "0",
			wantErr: xerr.ErrInvalidPageSize,
		},
		{
			name:    "limit above max rejected",
			limit:   "51",
			wantErr: xerr.ErrInvalidPageSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromQuery(tt.page, tt.limit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, Params{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 90, Params{Page: 10, Limit: 10}.Offset())
	assert.Equal(t, 49, Params{Page: 50, Limit: 1}.Offset())
}
