package tokenregistry

import "sort"

// Registry is a name-keyed collection of tokens. It is a simple,
// non-thread-safe data structure; concurrency control is provided by the
// owning system, not here.
type Registry struct {
	tokens map[string]*Token
}

// NewRegistry creates a new, empty token registry.
func NewRegistry() *Registry {
	return &Registry{
		tokens: make(map[string]*Token),
	}
}

// AddToken creates a new token with a zero balance and inserts it under name.
// Names are unique: registering an existing name fails with ErrTokenExists.
func (r *Registry) AddToken(name string) (*Token, error) {
	if name == "" {
		return nil, ErrEmptyTokenName
	}
	if _, exists := r.tokens[name]; exists {
		return nil, ErrTokenExists
	}

	token := &Token{name: name}
	r.tokens[name] = token
	return token, nil
}

// Token returns the token registered under name, if any.
func (r *Registry) Token(name string) (*Token, bool) {
	token, exists := r.tokens[name]
	return token, exists
}

// Balance returns the balance of the named token. Unknown names resolve to
// zero rather than an error, matching query semantics: a balance query is
// read-only and an absent token holds nothing.
func (r *Registry) Balance(name string) uint64 {
	token, exists := r.tokens[name]
	if !exists {
		return 0
	}
	return token.balance
}

// Len returns the number of registered tokens.
func (r *Registry) Len() int {
	return len(r.tokens)
}

// View returns a snapshot of all tokens, sorted by name so the encoding is
// deterministic for checksums and diffs.
func (r *Registry) View() []TokenView {
	views := make([]TokenView, 0, len(r.tokens))
	for _, token := range r.tokens {
		views = append(views, token.View())
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Name < views[j].Name
	})
	return views
}
