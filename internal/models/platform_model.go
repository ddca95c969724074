package models

type PlatformID string

const (
	PlatformX         PlatformID = "x"
	PlatformLinkedIn  PlatformID = "linkedin"
	PlatformYouTube   PlatformID = "youtube"
	PlatformFacebook  PlatformID = "facebook"
	PlatformInstagram PlatformID = "instagram"
	PlatformThreads   PlatformID = "threads"
)

// Platforms lists every platform a post can target.
var Platforms = []PlatformID{
	PlatformX,
	PlatformLinkedIn,
	PlatformYouTube,
	PlatformFacebook,
	PlatformInstagram,
	PlatformThreads,
}

func (p PlatformID) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

func (p PlatformID) String() string {
	return string(p)
}

type PostType string

const (
	PostTypeText    PostType = "text"
	PostTypeMedia   PostType = "media"
	PostTypeArticle PostType = "article"
	PostTypeVideo   PostType = "video"
)

var postTypePlatforms = map[PostType][]PlatformID{
	PostTypeText:    {PlatformX, PlatformLinkedIn, PlatformFacebook, PlatformThreads},
	PostTypeMedia:   {PlatformX, PlatformLinkedIn, PlatformFacebook, PlatformInstagram, PlatformThreads},
	PostTypeArticle: {PlatformLinkedIn},
	PostTypeVideo:   {PlatformYouTube},
}

func (t PostType) Valid() bool {
	_, ok := postTypePlatforms[t]
	return ok
}

// AllowsPlatform reports whether posts of type t can target platform p.
func (t PostType) AllowsPlatform(p PlatformID) bool {
	for _, allowed := range postTypePlatforms[t] {
		if allowed == p {
			return true
		}
	}
	return false
}
