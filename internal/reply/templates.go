// Package reply renders the user-visible WhatsApp response templates.
// Failures never surface raw error text to the user; they map to one of
// these templates.
package reply

import (
	"fmt"
	"strings"

	"github.com/jengatrack/jengatrack/internal/model"
	"github.com/jengatrack/jengatrack/pkg/utils"
)

// ExpenseLogged confirms a logged expense and shows the updated running total.
func ExpenseLogged(currency string, amount int64, description, category string, totalSpent int64) string {
	var b strings.Builder
	b.WriteString("✅ Expense logged\n")
	fmt.Fprintf(&b, "Amount: %s\n", utils.FormatMoney(currency, amount))
	if description != "" {
		fmt.Fprintf(&b, "Description: %s\n", description)
	}
	if category != "" {
		fmt.Fprintf(&b, "Category: %s\n", category)
	}
	fmt.Fprintf(&b, "Total spent: %s", utils.FormatMoney(currency, totalSpent))
	return b.String()
}

// TaskAdded confirms a created task.
func TaskAdded(title string) string {
	return fmt.Sprintf("📝 Task added: %s", title)
}

// BudgetUpdated confirms the new project budget.
func BudgetUpdated(currency string, budget int64) string {
	return fmt.Sprintf("💰 Budget updated to %s", utils.FormatMoney(currency, budget))
}

// ExpenseReport summarises project spend against budget with recent entries.
func ExpenseReport(projectName, currency string, summary model.ProjectSummary, recent []model.Expense) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Expense report — %s\n", projectName)
	fmt.Fprintf(&b, "Total spent: %s (%d expenses)\n", utils.FormatMoney(currency, summary.TotalSpent), summary.ExpenseCount)
	if summary.Budget != nil {
		fmt.Fprintf(&b, "Budget: %s\n", utils.FormatMoney(currency, *summary.Budget))
		if summary.Remaining != nil {
			fmt.Fprintf(&b, "Remaining: %s\n", utils.FormatMoney(currency, *summary.Remaining))
		}
	}
	if len(recent) > 0 {
		b.WriteString("Recent:\n")
		for _, e := range recent {
			desc := e.Description
			if desc == "" {
				desc = e.Category
			}
			fmt.Fprintf(&b, "• %s — %s\n", utils.FormatMoney(currency, e.Amount), desc)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ProjectCreated confirms a new project is now the active one.
func ProjectCreated(name string) string {
	return fmt.Sprintf("🏗️ Project \"%s\" created and set as your active project.", name)
}

// ImageReceived acknowledges a receipt photo.
func ImageReceived() string {
	return "📷 Image received. We've attached it to your project records."
}

// Onboarding greets a number we have not seen before.
func Onboarding() string {
	return "👋 Welcome to JengaTrack! We've set up your account.\n" +
		"Reply with a project name to get started, or try:\n" +
		"• \"Spent 5000 on cement\" to log an expense\n" +
		"• \"budget 2,000,000\" to set a budget"
}

// NoActiveProject tells the user no project can receive their entry.
func NoActiveProject() string {
	return "⚠️ No active project found. Create one from the dashboard or reply with \"project <name>\"."
}

// Help lists the commands the parser understands.
func Help() string {
	return "🤔 I didn't catch that. Try:\n" +
		"• \"Spent 500000 on cement\" — log an expense\n" +
		"• \"task: fix the roof\" — add a task\n" +
		"• \"budget 2,000,000\" — set your budget\n" +
		"• \"report\" — see your expense summary"
}

// Greeting answers hellos from registered users.
func Greeting(name string) string {
	if name == "" {
		return "👋 Hello! Send \"report\" for your expense summary or \"help\" for commands."
	}
	return fmt.Sprintf("👋 Hello %s! Send \"report\" for your expense summary or \"help\" for commands.", name)
}

// ProcessingFailed is the generic failure reply; raw errors stay in the logs.
func ProcessingFailed() string {
	return "😕 Something went wrong on our side. Please try again in a moment."
}
