package mediaservice

// Kind selects the compression policy and the object path segment for an
// uploaded image.
type Kind string

const (
	KindFeatured Kind = "featured"
	KindInline   Kind = "inline"
)

// Policy bounds the stored size of an image. Images narrower than MaxWidth
// are re-encoded without resizing.
type Policy struct {
	MaxWidth int
	Quality  int
}

var policies = map[Kind]Policy{
	KindFeatured: {MaxWidth: 1200, Quality: 85},
	KindInline:   {MaxWidth: 800, Quality: 80},
}

// PolicyFor returns the compression policy for the kind, defaulting to the
// inline policy for unknown kinds.
func PolicyFor(kind Kind) Policy {
	if p, ok := policies[kind]; ok {
		return p
	}
	return policies[KindInline]
}
