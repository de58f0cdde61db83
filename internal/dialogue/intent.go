package dialogue

import "strings"

// Intent is the interpreted purpose of a user reply to an outstanding
// question.
type Intent string

const (
	IntentAnswer      Intent = "ANSWER"
	IntentSkip        Intent = "SKIP"
	IntentClarify     Intent = "CLARIFY"
	IntentAffirmative Intent = "AFFIRMATIVE"
	IntentNegative    Intent = "NEGATIVE"
	IntentUnclear     Intent = "UNCLEAR"
)

var skipPhrases = []string{
	"i don't know", "i dont know", "don't know", "dont know", "i do not know",
	"i'm not sure", "im not sure", "not sure", "unsure", "not certain", "uncertain",
	"no idea", "no clue", "beats me", "dunno", "duno", "idk",
	"can't remember", "cant remember", "don't remember", "dont remember", "do not remember",
	"can't recall", "cant recall", "don't recall", "dont recall",
	"don't have it", "dont have it", "don't have that info",
	"cant say", "can't say", "no comment",
	"prefer not to say", "rather not say", "rather not",
	"skip", "pass",
	"not applicable", "n/a", "na", "not relevant", "irrelevant",
	"doesn't apply", "doesnt apply", "not applicable to me",
	"not sure how to answer", "can't answer that", "cant answer that",
}

var clarifyPhrases = []string{
	"what do you mean", "what does that mean", "explain", "can you explain",
	"i don't understand", "i dont understand", "i'm confused", "im confused",
	"what are you asking", "what's that", "whats that", "huh", "pardon",
	"come again", "can you rephrase", "say that again", "repeat that",
	"can you repeat", "what do you want to know", "not sure what you mean",
	"confused about what you mean",
}

var affirmativePhrases = []string{
	"yes", "yep", "yeah", "yah", "ya", "y", "yup",
	"absolutely", "definitely", "certainly", "sure", "of course",
	"okay", "ok", "alright", "all right", "fine",
	"correct", "that's right", "thats right", "exactly", "affirmative",
	"confirmed", "true", "for sure", "no doubt", "you bet",
	"sounds good", "works for me", "i agree", "i am", "i'm the patient", "me", "myself",
	"yes please", "yes, please",
}

var negativePhrases = []string{
	"no", "nope", "nah", "n", "nooo",
	"not really", "not at all", "not exactly",
	"incorrect", "wrong", "that's wrong", "thats wrong", "not correct",
	"not true", "false", "i disagree", "i don't agree", "don't think so",
	"negative", "never", "not me", "someone else", "on behalf",
	"no thanks", "no thank you",
}

// multi-word skip phrases that also count when embedded in a short
// reply, e.g. "i dont know the exact date".
var skipSubstrings = []string{
	"don't know", "dont know", "not sure", "no idea", "can't remember",
	"cant remember", "don't remember", "dont remember", "prefer not to say",
	"rather not say",
}

// ClassifyIntent is a pure function over the raw reply, evaluated
// before any extraction. yesNoQuestion gates the affirmative/negative
// checks to questions that actually expect a yes or a no.
func ClassifyIntent(reply string, yesNoQuestion bool) Intent {
	normalized := normalizeReply(reply)
	if normalized == "" {
		return IntentUnclear
	}

	if matchesPhrase(normalized, skipPhrases) {
		return IntentSkip
	}
	if matchesPhrase(normalized, clarifyPhrases) {
		return IntentClarify
	}
	if len(strings.Fields(normalized)) <= 6 {
		for _, phrase := range skipSubstrings {
			if strings.Contains(normalized, phrase) {
				return IntentSkip
			}
		}
	}

	if yesNoQuestion {
		if matchesPhrase(normalized, affirmativePhrases) {
			return IntentAffirmative
		}
		if matchesPhrase(normalized, negativePhrases) {
			return IntentNegative
		}
	}

	if len(strings.Fields(normalized)) >= 3 && !strings.Contains(reply, "?") {
		return IntentAnswer
	}

	return IntentUnclear
}

func normalizeReply(reply string) string {
	s := strings.ToLower(strings.TrimSpace(reply))
	return strings.TrimRight(s, ".!?")
}

// matchesPhrase compares the whole reply against each phrase, with
// apostrophes treated as optional on both sides.
func matchesPhrase(normalized string, phrases []string) bool {
	bare := strings.ReplaceAll(normalized, "'", "")
	for _, phrase := range phrases {
		if normalized == phrase || bare == strings.ReplaceAll(phrase, "'", "") {
			return true
		}
	}
	return false
}
