package assist

const (
	ConfirmReplacePrompt = "This will replace your existing content. Continue?"

	msgMissingTitle   = "Please add a title before generating content"
	msgMissingContent = "Please add some content before improving it"
	msgGenerated      = "Content generated successfully!"
	msgGatewayError   = "AI returned an error"
	msgGenerateFailed = "Failed to generate content. Please try again."
	msgImproveFailed  = "Failed to improve content. Please try again."
)

func msgImproved(k Kind) string {
	return "Content " + k.Done() + " successfully!"
}
