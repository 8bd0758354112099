package override

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Kind names one staged list in the Redis store.
type Kind string

const (
	KindAdded    Kind = "added"
	KindRemoved  Kind = "removed"
	KindSpelling Kind = "spelling"
)

// ParseKind validates a kind coming from user input.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindAdded, KindRemoved, KindSpelling:
		return k, nil
	}
	return "", fmt.Errorf("unknown override kind %q", s)
}

// Store keeps staged override lines in Redis sets, one set per dialect and
// kind. Staged lines use the same tab-separated syntax as the override files
// and are read once when a tagger or speller is constructed; changes take
// effect on the next start.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore creates a Store with the provided Redis client. Keys are named
// <prefix>:<dialect>:<kind>.
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "srmorph"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(dialect string, kind Kind) string {
	return s.prefix + ":" + dialect + ":" + string(kind)
}

// Add validates line and stages it.
func (s *Store) Add(ctx context.Context, dialect string, kind Kind, line string) error {
	line = strings.TrimSpace(line)
	if err := validateLine(kind, line); err != nil {
		return err
	}
	return s.client.SAdd(ctx, s.key(dialect, kind), line).Err()
}

// Remove unstages line.
func (s *Store) Remove(ctx context.Context, dialect string, kind Kind, line string) error {
	return s.client.SRem(ctx, s.key(dialect, kind), strings.TrimSpace(line)).Err()
}

// Members returns the staged lines of one list, sorted.
func (s *Store) Members(ctx context.Context, dialect string, kind Kind) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.key(dialect, kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key(dialect, kind), err)
	}
	sort.Strings(members)
	return members, nil
}

// Lists returns the staged additions and removals of dialect. Members that
// no longer parse are skipped with a warning.
func (s *Store) Lists(ctx context.Context, dialect string) (Lists, error) {
	var l Lists
	added, err := s.Members(ctx, dialect, KindAdded)
	if err != nil {
		return Lists{}, err
	}
	for _, m := range added {
		e, err := ParseAdditions(strings.NewReader(m), s.key(dialect, KindAdded))
		if err != nil {
			log.Printf("warning: skipping staged addition %q: %v", m, err)
			continue
		}
		l.Additions = append(l.Additions, e...)
	}
	removed, err := s.Members(ctx, dialect, KindRemoved)
	if err != nil {
		return Lists{}, err
	}
	for _, m := range removed {
		r, err := ParseRemovals(strings.NewReader(m), s.key(dialect, KindRemoved))
		if err != nil {
			log.Printf("warning: skipping staged removal %q: %v", m, err)
			continue
		}
		l.Removals = append(l.Removals, r...)
	}
	return l, nil
}

// Words returns the staged accepted spellings of dialect.
func (s *Store) Words(ctx context.Context, dialect string) ([]string, error) {
	return s.Members(ctx, dialect, KindSpelling)
}

func validateLine(kind Kind, line string) error {
	if line == "" || strings.Contains(line, "\n") {
		return fmt.Errorf("%w: staged %s line must be a single non-empty line", ErrSyntax, kind)
	}
	var err error
	switch kind {
	case KindAdded:
		_, err = ParseAdditions(strings.NewReader(line), "staged")
	case KindRemoved:
		_, err = ParseRemovals(strings.NewReader(line), "staged")
	case KindSpelling:
		if strings.ContainsAny(line, "\t ") {
			err = fmt.Errorf("%w: accepted spelling must be one word", ErrSyntax)
		}
	default:
		_, err = ParseKind(string(kind))
	}
	return err
}
