package transcript

import (
	"regexp"
	"strings"
)

// Strategy names how ordered user utterances map onto lead slots. The
// intent-first flow treats the caller's opening utterance ("I want
// admission") as filler and shifts every slot by one; name-first
// assumes the conversation opened directly with the name question.
type Strategy string

const (
	StrategyIntentFirst Strategy = "intent-first"
	StrategyNameFirst   Strategy = "name-first"
)

// LeadFields holds the extracted admission lead values. Every field is
// always present, possibly empty; extraction is best-effort by design
// and admins review the result.
type LeadFields struct {
	FullName          string `json:"fullName"`
	Age               string `json:"age"`
	TwelfthPercentage string `json:"twelfthPercentage"`
	Course            string `json:"course"`
	City              string `json:"city"`
	Phone             string `json:"phone"`
}

var (
	userRolePattern = regexp.MustCompile(`(?i)user|caller|customer`)
	intentPattern   = regexp.MustCompile(`(?i)\b(admission|admit|apply|enrol|enquir)`)
	userLinePattern = regexp.MustCompile(`(?i)(?:user|caller|customer):\s*([^\n]+)`)

	namePattern   = regexp.MustCompile(`(?:my name is|i'm |i am )([^.?!,\n]+)`)
	agePattern    = regexp.MustCompile(`(?:age|i'm |i am )(\d+)`)
	pctPattern    = regexp.MustCompile(`(\d{2,3})\s*%`)
	pctWordRE     = regexp.MustCompile(`\b(\d{2,3})\s*percent`)
	coursePattern = regexp.MustCompile(`(?:course|interested in|want)\s*(?:is|:)?\s*([^.?!,\n]+)`)
	cityPattern   = regexp.MustCompile(`(?:from|city|area|i am from)\s*(?:is|:)?\s*([^.?!,\n]+)`)
)

// SelectStrategy picks the slot strategy from the first user utterance:
// an admission-intent keyword or a question mark marks it as the
// trigger phrase rather than the name answer.
func SelectStrategy(userMsgs []string) Strategy {
	if len(userMsgs) > 0 && (intentPattern.MatchString(userMsgs[0]) || strings.Contains(userMsgs[0], "?")) {
		return StrategyIntentFirst
	}
	return StrategyNameFirst
}

// ExtractLead maps ordered user utterances onto the five admission
// fields, falling back to per-slot regex searches over rawText. Phone
// is the caller-ID value and passes through verbatim.
func ExtractLead(rawText string, messages []Message, phone string) LeadFields {
	t := strings.ToLower(rawText)

	var userMsgs []string
	for _, m := range messages {
		if !userRolePattern.MatchString(m.Role) {
			continue
		}
		if text := strings.TrimSpace(m.Text); text != "" {
			userMsgs = append(userMsgs, text)
		}
	}
	if len(userMsgs) == 0 && rawText != "" {
		for _, m := range userLinePattern.FindAllStringSubmatch(rawText, -1) {
			if text := strings.TrimSpace(m[1]); text != "" {
				userMsgs = append(userMsgs, text)
			}
		}
	}

	offset := 0
	if SelectStrategy(userMsgs) == StrategyIntentFirst {
		offset = 1
	}
	slot := func(i int) string {
		if i+offset < len(userMsgs) {
			return userMsgs[i+offset]
		}
		return ""
	}
	firstGroup := func(re *regexp.Regexp) string {
		if m := re.FindStringSubmatch(t); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}

	fullName := slot(0)
	if fullName == "" {
		fullName = firstGroup(namePattern)
	}
	age := slot(1)
	if age == "" {
		age = firstGroup(agePattern)
	}
	pct := slot(2)
	if pct == "" {
		pct = firstGroup(pctPattern)
		if pct == "" {
			pct = firstGroup(pctWordRE)
		}
	}
	course := slot(3)
	if course == "" {
		course = firstGroup(coursePattern)
	}
	city := slot(4)
	if city == "" {
		city = firstGroup(cityPattern)
	}

	return LeadFields{
		FullName:          truncate(fullName, 200),
		Age:               truncate(age, 50),
		TwelfthPercentage: truncate(pct, 20),
		Course:            truncate(course, 200),
		City:              truncate(city, 200),
		Phone:             phone,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}
