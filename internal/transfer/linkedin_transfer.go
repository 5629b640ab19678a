package transfer

type RegisterUploadRequest struct {
	RegisterUploadRequest RegisterUpload `json:"registerUploadRequest"`
}

type RegisterUpload struct {
	Recipes              []string              `json:"recipes"`
	Owner                string                `json:"owner"`
	ServiceRelationships []ServiceRelationship `json:"serviceRelationships"`
}

type ServiceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

type RegisterUploadResponse struct {
	Value RegisterUploadValue `json:"value"`
}

type RegisterUploadValue struct {
	Asset           string          `json:"asset"`
	UploadMechanism UploadMechanism `json:"uploadMechanism"`
}

type UploadMechanism struct {
	MediaUploadHTTPRequest MediaUploadHTTPRequest `json:"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"`
}

type MediaUploadHTTPRequest struct {
	UploadURL string            `json:"uploadUrl"`
	Headers   map[string]string `json:"headers"`
}

type UGCPost struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent SpecificContent `json:"specificContent"`
	Visibility      Visibility      `json:"visibility"`
}

type SpecificContent struct {
	ShareContent ShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type ShareContent struct {
	ShareCommentary    TextValue    `json:"shareCommentary"`
	ShareMediaCategory string       `json:"shareMediaCategory"` // NONE or IMAGE
	Media              []ShareMedia `json:"media,omitempty"`
}

type ShareMedia struct {
	Status      string    `json:"status"`
	Description TextValue `json:"description"`
	Media       string    `json:"media"` // asset URN
	Title       TextValue `json:"title"`
}

type TextValue struct {
	Text string `json:"text"`
}

type Visibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

type UGCPostResponse struct {
	ID string `json:"id"`
}

type LinkedinTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	TokenType   string `json:"token_type"`
}
