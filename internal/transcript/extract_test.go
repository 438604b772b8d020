package transcript

import "testing"

func userMessages(texts ...string) []Message {
	msgs := make([]Message, 0, len(texts))
	for _, t := range texts {
		msgs = append(msgs, Message{Role: "user", Text: t})
	}
	return msgs
}

func TestExtractLeadIntentFirst(t *testing.T) {
	msgs := userMessages("I want admission", "Riya Sen", "19", "78%", "B.Tech CSE", "Cuttack")
	lead := ExtractLead("", msgs, "+919876543210")

	if lead.FullName != "Riya Sen" {
		t.Errorf("FullName = %q", lead.FullName)
	}
	if lead.Age != "19" {
		t.Errorf("Age = %q", lead.Age)
	}
	if lead.TwelfthPercentage != "78%" {
		t.Errorf("TwelfthPercentage = %q", lead.TwelfthPercentage)
	}
	if lead.Course != "B.Tech CSE" {
		t.Errorf("Course = %q", lead.Course)
	}
	if lead.City != "Cuttack" {
		t.Errorf("City = %q", lead.City)
	}
	if lead.Phone != "+919876543210" {
		t.Errorf("Phone = %q", lead.Phone)
	}
}

func TestExtractLeadNameFirst(t *testing.T) {
	msgs := userMessages("Riya Sen", "19", "78%", "B.Tech CSE", "Cuttack")
	lead := ExtractLead("", msgs, "")
	if lead.FullName != "Riya Sen" || lead.City != "Cuttack" {
		t.Errorf("name-first slots misaligned: %+v", lead)
	}
}

func TestExtractLeadDeterministic(t *testing.T) {
	msgs := userMessages("I want admission", "Riya Sen", "19", "78%", "B.Tech CSE", "Cuttack")
	first := ExtractLead("", msgs, "+911234567890")
	for i := 0; i < 5; i++ {
		if got := ExtractLead("", msgs, "+911234567890"); got != first {
			t.Fatalf("extraction not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestSelectStrategy(t *testing.T) {
	cases := []struct {
		first string
		want  Strategy
	}{
		{"I want admission", StrategyIntentFirst},
		{"Can you tell me the fees?", StrategyIntentFirst},
		{"I would like to enquire about courses", StrategyIntentFirst},
		{"Riya Sen", StrategyNameFirst},
		{"Hello", StrategyNameFirst},
	}
	for _, c := range cases {
		if got := SelectStrategy([]string{c.first}); got != c.want {
			t.Errorf("SelectStrategy(%q) = %v, want %v", c.first, got, c.want)
		}
	}
	if got := SelectStrategy(nil); got != StrategyNameFirst {
		t.Errorf("SelectStrategy(nil) = %v", got)
	}
}

func TestExtractLeadRegexFallbacks(t *testing.T) {
	raw := "user: hello. my name is arjun patel. i am 18 years old and scored 91 percent. the course i want is mba. i am from pune."
	lead := ExtractLead(raw, nil, "")

	if lead.FullName == "" {
		t.Error("expected name fallback to match")
	}
	if lead.Age == "" {
		t.Error("expected age fallback to match")
	}
	if lead.TwelfthPercentage != "91" {
		t.Errorf("TwelfthPercentage = %q, want 91", lead.TwelfthPercentage)
	}
	if lead.Course == "" {
		t.Error("expected course fallback to match")
	}
	if lead.City == "" {
		t.Error("expected city fallback to match")
	}
}

func TestExtractLeadUserLinesFromRawText(t *testing.T) {
	raw := "User: I want admission\nAI: May I know your name?\nUser: Sneha Das\nAI: Your age?\nUser: 20"
	lead := ExtractLead(raw, nil, "")
	if lead.FullName != "Sneha Das" {
		t.Errorf("FullName = %q, want Sneha Das", lead.FullName)
	}
	if lead.Age != "20" {
		t.Errorf("Age = %q, want 20", lead.Age)
	}
}

func TestExtractLeadTruncation(t *testing.T) {
	long := make([]rune, 500)
	for i := range long {
		long[i] = 'a'
	}
	msgs := userMessages(string(long), "123456789012345678901234567890123456789012345678901234567890")
	lead := ExtractLead("", msgs, "")
	if len([]rune(lead.FullName)) != 200 {
		t.Errorf("FullName length = %d, want 200", len([]rune(lead.FullName)))
	}
	if len([]rune(lead.Age)) != 50 {
		t.Errorf("Age length = %d, want 50", len([]rune(lead.Age)))
	}
}

func TestExtractLeadEmptyInput(t *testing.T) {
	lead := ExtractLead("", nil, "+15550001111")
	if lead.FullName != "" || lead.Age != "" || lead.Course != "" {
		t.Errorf("expected empty fields, got %+v", lead)
	}
	if lead.Phone != "+15550001111" {
		t.Errorf("phone should pass through, got %q", lead.Phone)
	}
}
