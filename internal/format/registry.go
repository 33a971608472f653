package format

// Registry picks the parser for a file or an editor language id. The first
// registered match wins.
type Registry struct {
	parsers []Parser
}

// NewRegistry creates a Registry holding parsers.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: append([]Parser(nil), parsers...)}
}

// Register adds p after the existing parsers.
func (r *Registry) Register(p Parser) {
	r.parsers = append(r.parsers, p)
}

// Parsers returns the registered parsers in order.
func (r *Registry) Parsers() []Parser {
	return append([]Parser(nil), r.parsers...)
}

// ForFile returns the parser whose extension pattern matches filename.
func (r *Registry) ForFile(filename string) (Parser, bool) {
	for _, p := range r.parsers {
		if p.Descriptor().MatchFile(filename) {
			return p, true
		}
	}
	return nil, false
}

// ForLanguageID returns the parser accepting the editor language id.
func (r *Registry) ForLanguageID(id string) (Parser, bool) {
	for _, p := range r.parsers {
		if p.Descriptor().SupportsLanguageID(id) {
			return p, true
		}
	}
	return nil, false
}
