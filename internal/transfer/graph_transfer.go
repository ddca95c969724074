package transfer

import "fmt"

// GraphErrorResponse is the error envelope shared by the Facebook,
// Instagram and Threads Graph APIs.
type GraphErrorResponse struct {
	Error struct {
		Message        string `json:"message"`
		Type           string `json:"type"`
		Code           int    `json:"code"`
		ErrorSubcode   int    `json:"error_subcode"`
		IsTransient    bool   `json:"is_transient"`
		ErrorUserTitle string `json:"error_user_title"`
		ErrorUserMsg   string `json:"error_user_msg"`
		FbtraceID      string `json:"fbtrace_id"`
	} `json:"error"`
}

// UserMessage prefers the text Meta intends for end users.
func (e *GraphErrorResponse) UserMessage() string {
	switch {
	case e.Error.ErrorUserMsg != "":
		return e.Error.ErrorUserMsg
	case e.Error.Message != "":
		return e.Error.Message
	default:
		return ""
	}
}

type GraphIDResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

type GraphContainerStatus struct {
	ID         string `json:"id"`
	StatusCode string `json:"status_code"`
	Status     string `json:"status"`
}

func (s GraphContainerStatus) String() string {
	return fmt.Sprintf("%s (%s)", s.StatusCode, s.Status)
}
