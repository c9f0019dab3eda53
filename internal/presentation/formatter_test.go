package presentation

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/catalog"
)

var sampleDefs = []catalog.Definition{
	{Address: "Panel_Attribute", Kind: "attribute", Title: "Attributes", Params: map[string]string{"mana": "40", "health": "72"}},
	{Address: "Panel_Prompt", Kind: "text", Body: "Quit?"},
}

func TestFormatDefinitionsJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewFormatter(&buf).FormatDefinitionsJSON(FromDefinitions(sampleDefs)))

	var got []DefinitionDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, "Panel_Attribute", got[0].Address)
	require.False(t, got[0].HasBody)
	require.True(t, got[1].HasBody)
	require.NotContains(t, buf.String(), `"title": ""`)
}

func TestFormatDefinitions_Table(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewFormatter(&buf).FormatDefinitions(FromDefinitions(sampleDefs)))

	out := buf.String()
	require.Contains(t, out, "ADDRESS")
	require.Contains(t, out, "Panel_Attribute")
	require.Contains(t, out, "health=72 mana=40")
	require.Contains(t, out, "Panel_Prompt")
}

func TestFormatFlags(t *testing.T) {
	var buf bytes.Buffer

	flags := FromFlags(map[string]bool{"log-overlay": true, "history-dedupe": false})
	require.NoError(t, NewFormatter(&buf).FormatFlags(flags))

	require.Equal(t, "history-dedupe=false\nlog-overlay=true\n", buf.String())
}
