package media

// Kind is the inferred payload type.
type Kind int

const (
	Unknown      Kind = -1
	Image        Kind = 0
	Video        Kind = 1
	VideoNoAudio Kind = 2
)

// Blob is a decoded payload together with its inferred kind. Kind may be
// Unknown; the payload is still handed to the caller, who decides whether
// to keep it.
type Blob struct {
	Data []byte
	Kind Kind
	Zip  bool // zip-wrapped multi-part video
}

// Classify infers the kind from the first two bytes only. Inputs shorter
// than two bytes are Unknown. A zip archive ("PK") is a zip-wrapped
// multi-part video and classifies as Video.
func Classify(b []byte) Kind {
	if len(b) < 2 {
		return Unknown
	}
	switch {
	case b[0] == 0xFF && b[1] == 0xD8:
		return Image
	case b[0] == 0x00 && b[1] == 0x00:
		return Video
	case b[0] == 'P' && b[1] == 'K':
		return Video
	}
	return Unknown
}

// IsZip reports whether the payload is a zip archive.
func IsZip(b []byte) bool {
	return len(b) >= 2 && b[0] == 'P' && b[1] == 'K'
}

// Extension returns the file extension for a kind, without the dot.
// Unknown kinds have no extension.
func Extension(k Kind) string {
	switch k {
	case Video, VideoNoAudio:
		return "mp4"
	case Image:
		return "jpg"
	}
	return ""
}
