package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDetails(t *testing.T) {
	tests := []struct {
		name    string
		details map[string]any
		want    string
	}{
		{name: "nil", details: nil, want: ""},
		{name: "sorted", details: map[string]any{"persons": 3, "events": 4}, want: "events=4 persons=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDetails(tt.details))
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"", "json", "yaml", "toml", "csv"} {
		assert.NoError(t, validateFormat(f), f)
	}

	err := validateFormat("markdown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "0", want: 0},
		{input: "42", want: 42},
		{input: "-1", wantErr: true},
		{input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDay(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgAt(t *testing.T) {
	args := []string{"Birth", "A"}
	assert.Equal(t, "A", argAt(args, 1))
	assert.Equal(t, "", argAt(args, 2))
}

func TestBuildPersonEdit(t *testing.T) {
	var flags personEditFlags
	cmd := &cobra.Command{Use: "edit"}
	cmd.Flags().StringVar(&flags.name, "name", "", "")
	cmd.Flags().StringVar(&flags.career, "career", "", "")
	cmd.Flags().StringVar(&flags.place, "place", "", "")
	cmd.Flags().StringVar(&flags.image, "image", "", "")
	cmd.Flags().BoolVar(&flags.favourite, "favourite", false, "")
	cmd.Flags().BoolVar(&flags.complete, "complete", false, "")
	cmd.Flags().StringSliceVar(&flags.traits, "trait", nil, "")

	require.NoError(t, cmd.ParseFlags([]string{"--career", "", "--favourite", "--trait", "Loner", "--trait", "Cheerful"}))

	edit := buildPersonEdit(cmd, flags)
	assert.Nil(t, edit.Name)
	assert.Nil(t, edit.Place)
	assert.Nil(t, edit.Complete)
	require.NotNil(t, edit.Career)
	assert.Equal(t, "", *edit.Career)
	require.NotNil(t, edit.Favourite)
	assert.True(t, *edit.Favourite)
	assert.Equal(t, []string{"Loner", "Cheerful"}, edit.Traits)
}
