package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/devsilvver/corrida-das-gemas/internal/catalog"
	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
)

func main() {
	var catalogOut, protocolOut string
	flag.StringVar(&catalogOut, "catalog-out", "", "path to write the character catalog schema")
	flag.StringVar(&protocolOut, "protocol-out", "", "path to write the peer protocol schema")
	flag.Parse()

	if catalogOut == "" && protocolOut == "" {
		fmt.Fprintln(os.Stderr, "--catalog-out or --protocol-out is required")
		os.Exit(1)
	}
	if catalogOut != "" {
		if err := writeSchema(catalogOut, catalogSchema()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write catalog schema: %v\n", err)
			os.Exit(1)
		}
	}
	if protocolOut != "" {
		if err := writeSchema(protocolOut, protocolSchema()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write protocol schema: %v\n", err)
			os.Exit(1)
		}
	}
}

func catalogSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(catalog.FileDefinitions))
	schema.Title = "Corrida das Gemas Character Catalog"
	schema.Description = "Validates catalog documents passed with catalogPath"
	return schema
}

// Envelope variants as they appear on the wire. They exist only to be
// reflected.
type (
	requestSummonEnvelope struct {
		Type string `json:"type" jsonschema:"enum=request_summon"`
	}
	requestMergeEnvelope struct {
		Type    string             `json:"type" jsonschema:"enum=request_merge"`
		Payload proto.RequestMerge `json:"payload"`
	}
	actionEnvelope struct {
		Type    string       `json:"type" jsonschema:"enum=action"`
		Payload proto.Action `json:"payload"`
	}
	stateEnvelope struct {
		Type    string      `json:"type" jsonschema:"enum=state"`
		Payload proto.State `json:"payload"`
	}
	deckShareEnvelope struct {
		Type    string          `json:"type" jsonschema:"enum=deck_share"`
		Payload proto.DeckShare `json:"payload"`
	}
	startGameEnvelope struct {
		Type    string          `json:"type" jsonschema:"enum=start_game"`
		Payload proto.StartGame `json:"payload"`
	}
)

func protocolSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	variants := []struct {
		title    string
		envelope any
	}{
		{proto.TypeRequestSummon, requestSummonEnvelope{}},
		{proto.TypeRequestMerge, requestMergeEnvelope{}},
		{proto.TypeAction, actionEnvelope{}},
		{proto.TypeState, stateEnvelope{}},
		{proto.TypeDeckShare, deckShareEnvelope{}},
		{proto.TypeStartGame, startGameEnvelope{}},
	}
	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Corrida das Gemas Peer Envelope",
		Description: fmt.Sprintf("JSON-codec envelopes exchanged between host and guest, protocol version %d", proto.Version),
	}
	for _, variant := range variants {
		schema := reflector.Reflect(variant.envelope)
		schema.Version = ""
		schema.Title = variant.title
		root.OneOf = append(root.OneOf, schema)
	}
	return root
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
