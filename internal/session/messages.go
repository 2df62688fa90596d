package session

const (
	msgDraftRestored  = "Draft restored from browser storage"
	msgDraftSaved     = "Draft saved to browser storage"
	msgDraftSaveFail  = "Failed to save draft"
	msgDraftCleared   = "Draft cleared from browser storage"
	msgDraftClearFail = "Failed to clear draft"
	msgImageUploaded  = "Image uploaded"
	msgImageFailed    = "Failed to upload image"
	msgPublished      = "Post published"
	msgPublishFailed  = "Failed to publish post"
)
