package generate

import "fmt"

const promptTemplate = `You are a financial analyst assistant. You have access to the annual report of %s.

CONTEXT FROM ANNUAL REPORT:
%s

USER QUERY: %s

Please provide a comprehensive answer based on the information available in the annual report. If specific information is not available in the provided context, please state that clearly. Include relevant financial data and insights where applicable.

ANSWER:`

// BuildPrompt wraps an assembled context and query in the analyst
// prompt template. An empty company name falls back to a generic one.
func BuildPrompt(context, query, companyName string) string {
	if companyName == "" {
		companyName = "the company"
	}
	return fmt.Sprintf(promptTemplate, companyName, context, query)
}
