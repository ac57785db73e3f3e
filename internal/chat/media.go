package chat

// MediaKind is the closed set of non-text content a paired user can send.
type MediaKind string

const (
	MediaPhoto     MediaKind = "photo"
	MediaDocument  MediaKind = "document"
	MediaVideo     MediaKind = "video"
	MediaAnimation MediaKind = "animation"
	MediaSticker   MediaKind = "sticker"
	MediaAudio     MediaKind = "audio"
	MediaVoice     MediaKind = "voice"
)

var mediaKinds = map[MediaKind]bool{
	MediaPhoto:     true,
	MediaDocument:  true,
	MediaVideo:     true,
	MediaAnimation: true,
	MediaSticker:   true,
	MediaAudio:     true,
	MediaVoice:     true,
}

// Valid reports whether k is a known media kind.
func (k MediaKind) Valid() bool {
	return mediaKinds[k]
}

// MediaItem is an opaque reference to platform-hosted media. FileID is the
// platform content handle; the bot never downloads the payload itself.
type MediaItem struct {
	Kind    MediaKind
	FileID  string
	Caption string
}
