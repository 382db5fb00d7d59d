package proto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/devsilvver/corrida-das-gemas/internal/arena"
	"github.com/devsilvver/corrida-das-gemas/internal/board"
	"github.com/devsilvver/corrida-das-gemas/internal/catalog"
)

func sampleAction() Action {
	unit := board.Unit{
		ID:        7,
		Character: catalog.Character{ID: "COM_01", Name: "Guerreiro", Rarity: catalog.RarityCommon, BaseDamage: 70},
		Level:     2,
		Row:       1,
		Col:       3,
	}
	return Action{Type: ActionMerge, ForPlayer: false, NewUnit: &unit, Unit1ID: 0, Unit2ID: 4, ManaGained: 120}
}

func TestJSONWireShape(t *testing.T) {
	data, err := JSONCodec{}.Encode(Envelope{Type: TypeRequestSummon})
	if err != nil {
		t.Fatalf("encode request_summon: %v", err)
	}
	if string(data) != `{"type":"request_summon"}` {
		t.Fatalf("unexpected request_summon frame %s", data)
	}

	data, err = JSONCodec{}.Encode(Envelope{Type: TypeAction, Payload: sampleAction()})
	if err != nil {
		t.Fatalf("encode action: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	payload := generic["payload"].(map[string]any)
	if payload["type"] != "MERGE" || payload["forPlayer"] != false {
		t.Fatalf("unexpected action payload %v", payload)
	}
	if _, ok := payload["unit1Id"]; !ok {
		t.Fatalf("expected unit1Id present even when zero")
	}
	newUnit := payload["newUnit"].(map[string]any)
	if newUnit["character"].(map[string]any)["baseDamage"] != float64(70) {
		t.Fatalf("expected full character on the wire, got %v", newUnit)
	}
}

func TestCodecsDecodeTypedPayloads(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := codec.Encode(Envelope{Type: TypeAction, Payload: sampleAction()})
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			env, err := codec.Decode(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			action, ok := Payload[Action](env)
			if !ok {
				t.Fatalf("expected Action payload, got %T", env.Payload)
			}
			if action.Type != ActionMerge || action.Unit2ID != 4 || action.ManaGained != 120 {
				t.Fatalf("unexpected action %+v", action)
			}
			if action.NewUnit == nil || action.NewUnit.ID != 7 || action.NewUnit.Character.ID != "COM_01" {
				t.Fatalf("unexpected new unit %+v", action.NewUnit)
			}

			state := State{
				Tick:             12,
				Host:             SideState{Health: 3, Mana: 90, SummonCost: 25, Enemies: []arena.Enemy{{ID: 3, Type: arena.EnemyShielded, HP: 12.5, MaxHP: 400, X: 1.5}}},
				Guest:            SideState{Health: 2, Mana: 10, SummonCost: 10},
				BossTimer:        88,
				BossHPMultiplier: 1.5,
				Winner:           WinnerGuest,
			}
			data, err = codec.Encode(Envelope{Type: TypeState, Payload: state})
			if err != nil {
				t.Fatalf("encode state: %v", err)
			}
			env, err = codec.Decode(data)
			if err != nil {
				t.Fatalf("decode state: %v", err)
			}
			got, ok := Payload[State](env)
			if !ok {
				t.Fatalf("expected State payload, got %T", env.Payload)
			}
			if got.Host.Enemies[0].HP != 12.5 || got.Guest.Health != 2 || got.BossHPMultiplier != 1.5 || got.Winner != WinnerGuest {
				t.Fatalf("unexpected state %+v", got)
			}

			data, err = codec.Encode(Envelope{Type: TypeDeckShare, Payload: DeckShare{"COM_01", "LEG_02"}})
			if err != nil {
				t.Fatalf("encode deck: %v", err)
			}
			env, err = codec.Decode(data)
			if err != nil {
				t.Fatalf("decode deck: %v", err)
			}
			deck, ok := Payload[DeckShare](env)
			if !ok || len(deck) != 2 || deck[1] != "LEG_02" {
				t.Fatalf("unexpected deck %+v", env.Payload)
			}

			data, err = codec.Encode(Envelope{Type: TypeRequestSummon})
			if err != nil {
				t.Fatalf("encode request: %v", err)
			}
			env, err = codec.Decode(data)
			if err != nil || env.Type != TypeRequestSummon || env.Payload != nil {
				t.Fatalf("unexpected request_summon decode %+v err=%v", env, err)
			}
		})
	}
}

func TestDecodeRejectsUnknownAndMalformed(t *testing.T) {
	_, err := JSONCodec{}.Decode([]byte(`{"type":"teleport_everything","payload":{}}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if _, err := (JSONCodec{}).Decode([]byte(`{"type":`)); err == nil {
		t.Fatalf("expected error for truncated frame")
	}
	if _, err := (JSONCodec{}).Decode([]byte(`{"type":"request_merge"}`)); err == nil || !strings.Contains(err.Error(), "missing payload") {
		t.Fatalf("expected missing payload error, got %v", err)
	}
	if _, err := (MsgpackCodec{}).Decode([]byte{0xc1}); err == nil {
		t.Fatalf("expected error for invalid msgpack")
	}
}

func TestNewCodec(t *testing.T) {
	if c, err := NewCodec(""); err != nil || c.Name() != CodecJSON || c.Binary() {
		t.Fatalf("expected json default, got %v %v", c, err)
	}
	if c, err := NewCodec(CodecMsgpack); err != nil || !c.Binary() {
		t.Fatalf("expected binary msgpack codec, got %v %v", c, err)
	}
	if _, err := NewCodec("xml"); err == nil {
		t.Fatalf("expected unknown codec error")
	}
}
