package transfer

type LinkedInText struct {
	Text string `json:"text"`
}

type LinkedInThumbnail struct {
	URL string `json:"url"`
}

type LinkedInMedia struct {
	Status      string              `json:"status"`
	Description *LinkedInText       `json:"description,omitempty"`
	Media       string              `json:"media,omitempty"`
	OriginalURL string              `json:"originalUrl,omitempty"`
	Title       *LinkedInText       `json:"title,omitempty"`
	Thumbnails  []LinkedInThumbnail `json:"thumbnails,omitempty"`
}

type LinkedInShareContent struct {
	ShareCommentary    LinkedInText    `json:"shareCommentary"`
	ShareMediaCategory string          `json:"shareMediaCategory"`
	Media              []LinkedInMedia `json:"media,omitempty"`
}

type LinkedInUGCPost struct {
	Author          string `json:"author"`
	LifecycleState  string `json:"lifecycleState"`
	SpecificContent struct {
		ShareContent LinkedInShareContent `json:"com.linkedin.ugc.ShareContent"`
	} `json:"specificContent"`
	Visibility map[string]string `json:"visibility"`
}

type LinkedInErrorResponse struct {
	Message     string `json:"message"`
	Status      int    `json:"status"`
	ServiceCode int    `json:"serviceErrorCode"`
}

type LinkedInServiceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

type LinkedInRegisterUpload struct {
	Recipes              []string                      `json:"recipes"`
	Owner                string                        `json:"owner"`
	ServiceRelationships []LinkedInServiceRelationship `json:"serviceRelationships"`
}

type LinkedInRegisterUploadRequest struct {
	RegisterUploadRequest LinkedInRegisterUpload `json:"registerUploadRequest"`
}

type LinkedInRegisterUploadResponse struct {
	Value struct {
		UploadMechanism struct {
			HTTPRequest struct {
				UploadURL string `json:"uploadUrl"`
			} `json:"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"`
		} `json:"uploadMechanism"`
		Asset string `json:"asset"`
	} `json:"value"`
}
