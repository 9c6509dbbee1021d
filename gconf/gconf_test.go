package gconf

import (
	"encoding/json"
	"testing"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
	"github.com/mohankour/ValoraVault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type myConfig struct {
	Number int64  `json:"number"`
	Text   string `json:"text"`
}

func (c *myConfig) Validate() error {
	if c.Number < 0 {
		return errors.Wrap(errors.ErrInput, "negative number")
	}
	return nil
}

func (c *myConfig) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *myConfig) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *myConfig
		WantSaveErr *errors.Error
	}{
		"valid": {
			Conf: &myConfig{Number: 852151421, Text: "foobar"},
		},
		"zero value": {
			Conf: &myConfig{},
		},
		"invalid cannot be saved": {
			Conf:        &myConfig{Number: -1},
			WantSaveErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				err := Load(db, "mypkg", &myConfig{})
				assert.True(t, errors.ErrNotFound.Is(err))
				return
			}

			var got myConfig
			require.NoError(t, Load(db, "mypkg", &got))
			assert.Equal(t, *tc.Conf, got)
		})
	}
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		Genesis string
		WantErr *errors.Error
		Want    myConfig
	}{
		"valid configuration": {
			Genesis: `{"conf": {"mypkg": {"number": 7, "text": "seven"}}}`,
			Want:    myConfig{Number: 7, Text: "seven"},
		},
		"missing package": {
			Genesis: `{"conf": {"other": {"number": 7}}}`,
			WantErr: errors.ErrNotFound,
		},
		"invalid value": {
			Genesis: `{"conf": {"mypkg": {"number": -4}}}`,
			WantErr: errors.ErrInput,
		},
		"malformed json": {
			Genesis: `{"conf": {"mypkg": {"number": "x"}}}`,
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts valora.Options
			require.NoError(t, json.Unmarshal([]byte(tc.Genesis), &opts))

			db := store.MemStore()
			var conf myConfig
			if err := InitConfig(db, opts, "mypkg", &conf); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr != nil {
				return
			}
			var got myConfig
			require.NoError(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.Want, got)
		})
	}
}
