package intent

import (
	"regexp"
	"strings"
)

// Intent labels assigned to inbound messages.
const (
	IntentExpenseLog    = "expense-log"
	IntentTaskCreate    = "task-create"
	IntentProjectCreate = "project-create"
	IntentBudgetSet     = "budget-set"
	IntentExpenseQuery  = "expense-query"
	IntentImage         = "image-upload"
	IntentGreeting      = "greeting"
	IntentUnknown       = "unknown"
)

// Result is the outcome of classifying one message.
type Result struct {
	Intent     string
	Confidence float64
	// Amount is set for expense-log and budget-set.
	Amount int64
	// Description is the expense description or task title.
	Description string
	// Category is the expense category hint, empty unless expense-log.
	Category string
}

// Parser classifies free-text WhatsApp messages into intents using ordered
// rule matching. It is deterministic: the same text always yields the same
// result.
type Parser struct {
	categories *CategoryMatcher
}

// NewParser creates a parser. matcher may be nil, in which case expenses get
// the default category.
func NewParser(matcher *CategoryMatcher) *Parser {
	return &Parser{categories: matcher}
}

var (
	// "spent 500000 on cement", "paid 12,000 for transport", "used 3k"
	spendPattern = regexp.MustCompile(`(?i)^(?:i\s+)?(?:spent|paid|used)\s+(.+?)(?:\s+(?:on|for)\s+(.+))?$`)
	// "bought cement for 50000", "bought 3 bags of cement at 4,500"
	boughtPattern = regexp.MustCompile(`(?i)^(?:i\s+)?bought\s+(.+?)\s+(?:for|at|@)\s+(.+)$`)
	// "budget 2000000", "set budget to 1.5m"
	budgetPattern = regexp.MustCompile(`(?i)^(?:set\s+)?budget(?:\s+(?:to|is|of|at))?\s+(.+)$`)
	// "task: fix the roof", "todo call plumber", "add task order tiles"
	taskPattern = regexp.MustCompile(`(?i)^(?:add\s+)?(?:task|todo)\s*[:\-]?\s+(.+)$`)
	// "project Nairobi House", "new project: Thika Flats"
	projectPattern = regexp.MustCompile(`(?i)^(?:new\s+)?project\s*[:\-]?\s+(.+)$`)
	// "expenses", "report", "how much have i spent"
	queryPattern    = regexp.MustCompile(`(?i)^(?:expenses?|report|summary|total|balance)\b`)
	howMuchPattern  = regexp.MustCompile(`(?i)\bhow\s+much\b`)
	greetingPattern = regexp.MustCompile(`(?i)^(?:hi|hello|hey|habari|jambo|mambo|start)\b`)
)

// Classify assigns an intent to the given message text.
func (p *Parser) Classify(text string) Result {
	normalized := normalize(text)
	if normalized == "" {
		return Result{Intent: IntentUnknown}
	}

	if m := boughtPattern.FindStringSubmatch(normalized); m != nil {
		if amount, ok := ParseAmount(m[2]); ok {
			desc := cleanDescription(m[1])
			return Result{
				Intent:      IntentExpenseLog,
				Confidence:  0.95,
				Amount:      amount,
				Description: desc,
				Category:    p.categorize(desc),
			}
		}
	}

	if m := spendPattern.FindStringSubmatch(normalized); m != nil {
		if amount, ok := ParseAmount(m[1]); ok {
			desc := cleanDescription(m[2])
			confidence := 0.95
			if desc == "" {
				confidence = 0.85
			}
			return Result{
				Intent:      IntentExpenseLog,
				Confidence:  confidence,
				Amount:      amount,
				Description: desc,
				Category:    p.categorize(desc),
			}
		}
	}

	if m := budgetPattern.FindStringSubmatch(normalized); m != nil {
		if amount, ok := ParseAmount(m[1]); ok {
			return Result{Intent: IntentBudgetSet, Confidence: 0.9, Amount: amount}
		}
	}

	if m := taskPattern.FindStringSubmatch(normalized); m != nil {
		title := cleanDescription(m[1])
		if title != "" {
			return Result{Intent: IntentTaskCreate, Confidence: 0.9, Description: title}
		}
	}

	if m := projectPattern.FindStringSubmatch(normalized); m != nil {
		name := cleanDescription(m[1])
		if name != "" {
			return Result{Intent: IntentProjectCreate, Confidence: 0.9, Description: name}
		}
	}

	if queryPattern.MatchString(normalized) || howMuchPattern.MatchString(normalized) {
		return Result{Intent: IntentExpenseQuery, Confidence: 0.8}
	}

	if greetingPattern.MatchString(normalized) {
		return Result{Intent: IntentGreeting, Confidence: 0.99}
	}

	return Result{Intent: IntentUnknown}
}

func (p *Parser) categorize(description string) string {
	if p.categories == nil {
		return DefaultCategory
	}
	return p.categories.Match(description)
}

// normalize collapses whitespace and trims punctuation noise off the ends.
func normalize(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Join(strings.Fields(text), " ")
	return strings.Trim(text, ".!?")
}

func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".!?")
	return strings.TrimSpace(s)
}
