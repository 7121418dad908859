package websocket

import (
	"encoding/json"
	"testing"

	"github.com/habla-ai/habla/domain/entities"
)

func TestParseMessage_ChatMessage(t *testing.T) {
	raw := []byte(`{"type":"chat_message","content":"¿Cómo se dice apple?"}`)

	parsed, err := ParseMessage(raw)
	if err != nil {
		t.Fatalf("ParseMessage failed: %v", err)
	}

	msg, ok := parsed.(*ChatMessage)
	if !ok {
		t.Fatalf("parsed type = %T, want *ChatMessage", parsed)
	}
	if msg.Content != "¿Cómo se dice apple?" {
		t.Errorf("content = %q", msg.Content)
	}
}

func TestParseMessage_ChatMessageRequiresContent(t *testing.T) {
	if _, err := ParseMessage([]byte(`{"type":"chat_message"}`)); err == nil {
		t.Error("chat message without content was accepted")
	}
}

func TestParseMessage_SettingsUpdate(t *testing.T) {
	raw := []byte(`{"type":"settings_update","target_language":"french","mother_tongue":"german"}`)

	parsed, err := ParseMessage(raw)
	if err != nil {
		t.Fatalf("ParseMessage failed: %v", err)
	}

	msg, ok := parsed.(*SettingsUpdateMessage)
	if !ok {
		t.Fatalf("parsed type = %T, want *SettingsUpdateMessage", parsed)
	}
	if msg.TargetLanguage != "french" || msg.MotherTongue != "german" {
		t.Errorf("language pair = (%s, %s)", msg.TargetLanguage, msg.MotherTongue)
	}
}

func TestParseMessage_SettingsUpdateRequiresBothLanguages(t *testing.T) {
	cases := []string{
		`{"type":"settings_update","target_language":"french"}`,
		`{"type":"settings_update","mother_tongue":"german"}`,
	}
	for _, raw := range cases {
		if _, err := ParseMessage([]byte(raw)); err == nil {
			t.Errorf("incomplete settings update was accepted: %s", raw)
		}
	}
}

func TestParseMessage_ListeningStart(t *testing.T) {
	raw := []byte(`{"type":"listening_start","sample_rate":24000}`)

	parsed, err := ParseMessage(raw)
	if err != nil {
		t.Fatalf("ParseMessage failed: %v", err)
	}

	msg, ok := parsed.(*ListeningStartMessage)
	if !ok {
		t.Fatalf("parsed type = %T, want *ListeningStartMessage", parsed)
	}
	if msg.SampleRate != 24000 {
		t.Errorf("sample rate = %d, want 24000", msg.SampleRate)
	}
}

func TestParseMessage_ListeningStartRejectsBadSampleRate(t *testing.T) {
	cases := []string{
		`{"type":"listening_start","sample_rate":4000}`,
		`{"type":"listening_start","sample_rate":96000}`,
	}
	for _, raw := range cases {
		if _, err := ParseMessage([]byte(raw)); err == nil {
			t.Errorf("out-of-range sample rate was accepted: %s", raw)
		}
	}
}

func TestParseMessage_BareTypes(t *testing.T) {
	for _, msgType := range []MessageType{MessageTypeSessionStart, MessageTypeListeningEnd} {
		raw := []byte(`{"type":"` + string(msgType) + `"}`)
		parsed, err := ParseMessage(raw)
		if err != nil {
			t.Fatalf("ParseMessage(%s) failed: %v", msgType, err)
		}
		base, ok := parsed.(*BaseMessage)
		if !ok {
			t.Fatalf("parsed type = %T, want *BaseMessage", parsed)
		}
		if base.Type != msgType {
			t.Errorf("type = %q, want %q", base.Type, msgType)
		}
	}
}

func TestParseMessage_UnsupportedType(t *testing.T) {
	if _, err := ParseMessage([]byte(`{"type":"spawn_shell"}`)); err == nil {
		t.Error("unsupported message type was accepted")
	}
}

func TestParseMessage_InvalidJSON(t *testing.T) {
	if _, err := ParseMessage([]byte(`{"type":`)); err == nil {
		t.Error("malformed JSON was accepted")
	}
}

func TestNewWelcomeMessage_UsesTargetPersona(t *testing.T) {
	session := entities.NewConversationSession("session-1")
	if err := session.SetLanguages("german", "english"); err != nil {
		t.Fatalf("SetLanguages failed: %v", err)
	}

	msg := NewWelcomeMessage(session)

	target := session.Target()
	if msg.Content != target.WelcomeMessage {
		t.Errorf("welcome content = %q, want the German greeting", msg.Content)
	}
	if msg.Author != target.TutorName {
		t.Errorf("author = %q, want %q", msg.Author, target.TutorName)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["type"] != "welcome" {
		t.Errorf("wire type = %v, want welcome", decoded["type"])
	}
}

func TestNewSettingsSyncMessage_CarriesDeepLCodes(t *testing.T) {
	session := entities.NewConversationSession("session-1")
	if err := session.SetLanguages("portuguese", "polish"); err != nil {
		t.Fatalf("SetLanguages failed: %v", err)
	}

	msg := NewSettingsSyncMessage(session)

	if msg.TargetDeepLCode != "PT-PT" {
		t.Errorf("target DeepL code = %q, want PT-PT", msg.TargetDeepLCode)
	}
	if msg.MotherDeepLCode != "PL" {
		t.Errorf("mother DeepL code = %q, want PL", msg.MotherDeepLCode)
	}
}

func TestNewErrorMessage_WireFormat(t *testing.T) {
	payload, err := json.Marshal(NewErrorMessage("chat_failed", "something broke"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["error_code"] != "chat_failed" {
		t.Errorf("error_code = %v", decoded["error_code"])
	}
	if decoded["type"] != "error" {
		t.Errorf("type = %v, want error", decoded["type"])
	}
}
