package service

import (
	"strings"

	"contract-analyzer/internal/domain"
)

// SystemPrompt is sent ahead of every analysis prompt.
const SystemPrompt = "You are a precise legal contract analyzer. Be precise and clear, and base every statement only on the documents provided."

// PromptInput holds the resolved document texts for one request.
// SecondaryText is only set for compare requests.
type PromptInput struct {
	PrimaryText   string
	SecondaryText string
	Question      string
}

type promptTemplate func(in PromptInput) string

var promptTemplates = map[domain.RequestType]promptTemplate{
	domain.RequestTypeSummary: summaryPrompt,
	domain.RequestTypeClauses: clausesPrompt,
	domain.RequestTypeRisk:    riskPrompt,
	domain.RequestTypeQA:      qaPrompt,
	domain.RequestTypeCompare: comparePrompt,
}

// BuildPrompt returns the user prompt for a request type. Matching is exact
// and case-sensitive; any other type gets the generic prompt.
func BuildPrompt(requestType domain.RequestType, in PromptInput) string {
	if tmpl, ok := promptTemplates[requestType]; ok {
		return tmpl(in)
	}
	return genericPrompt(in)
}

func summaryPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("Summarize the following contract. Respond with a JSON object using exactly these keys:\n")
	writeKeys(&b, "Parties", "Term", "Fees", "Effective Date", "Governing Law", "Summary")
	b.WriteString("Use \"Not specified\" for any value the contract does not state.\n\n")
	writeDocument(&b, "Document", in.PrimaryText)
	return b.String()
}

func clausesPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("Extract the key clauses from the following contract. Respond with a JSON object using exactly these keys, each holding the clause text or a short paraphrase:\n")
	writeKeys(&b, "Termination", "Payment", "Confidentiality", "Dispute Resolution")
	b.WriteString("Use \"Not found\" when the contract has no such clause.\n\n")
	writeDocument(&b, "Document", in.PrimaryText)
	return b.String()
}

func riskPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("Identify the legal and commercial risks in the following contract. Respond with a JSON object of the form:\n")
	b.WriteString(`{"risks": [{"category": "...", "level": "Low|Medium|High", "description": "..."}], "recommendations": ["..."]}`)
	b.WriteString("\nEach risk level must be one of Low, Medium or High. Recommendations should describe how to mitigate the risks found.\n\n")
	writeDocument(&b, "Document", in.PrimaryText)
	return b.String()
}

func qaPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("Answer the question below using only the contract that follows. Answer in plain prose, not JSON.\n\n")
	b.WriteString("Question: ")
	b.WriteString(in.Question)
	b.WriteString("\n\n")
	writeDocument(&b, "Document", in.PrimaryText)
	return b.String()
}

func comparePrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("Compare the two contracts below, Document A and Document B. For each of the following aspects, state what each document says and how they differ:\n")
	writeKeys(&b, "Duration", "Payment Terms", "Termination", "Confidentiality", "Liability", "Other Differences")
	b.WriteString("\n")
	writeDocument(&b, "Document A", in.PrimaryText)
	b.WriteString("\n\n")
	writeDocument(&b, "Document B", in.SecondaryText)
	return b.String()
}

func genericPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("Analyze this document:\n\n")
	writeDocument(&b, "Document", in.PrimaryText)
	return b.String()
}

func writeKeys(b *strings.Builder, keys ...string) {
	for _, k := range keys {
		b.WriteString("- ")
		b.WriteString(k)
		b.WriteString("\n")
	}
}

func writeDocument(b *strings.Builder, label, text string) {
	b.WriteString(label)
	b.WriteString(":\n")
	b.WriteString(text)
}
