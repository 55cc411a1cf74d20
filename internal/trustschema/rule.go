package trustschema

import (
	"errors"
	"sync"

	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// MaxRuleNameLength bounds a rule's name. The original firmware pulls
// this value from a build-time constant that wasn't present anywhere in
// the retrieved reference sources; this default matches the capacity of
// the other fixed-size tables already established in this module (fib,
// pit, cs) and is generous for the short rule names trust schemas use in
// practice.
const MaxRuleNameLength = 64

// DefaultRuleCapacity is the number of named rules a RuleStore holds at
// once, mirroring ndn_rule_storage_t's fixed-size rule_objects array.
const DefaultRuleCapacity = 16

// Rule pairs a data name pattern with the key name pattern that must
// match for a key to be authorized to sign data under that pattern.
type Rule struct {
	DataPattern Pattern
	KeyPattern  Pattern
}

// RuleFromStrings parses a rule from its data and key pattern strings.
func RuleFromStrings(dataPattern, keyPattern string) (Rule, error) {
	dp, err := ParsePattern(dataPattern)
	if err != nil {
		return Rule{}, err
	}
	kp, err := ParsePattern(keyPattern)
	if err != nil {
		return Rule{}, err
	}
	return Rule{DataPattern: dp, KeyPattern: kp}, nil
}

// RuleStore is a fixed-capacity, named collection of Rules. Adding a
// rule under a name that's already in use replaces the old rule first,
// the same as ndn_rule_storage_add_rule.
type RuleStore struct {
	mu       sync.RWMutex
	capacity int
	rules    map[string]Rule
}

// NewRuleStore returns an empty RuleStore with room for capacity rules.
// capacity <= 0 selects DefaultRuleCapacity.
func NewRuleStore(capacity int) *RuleStore {
	if capacity <= 0 {
		capacity = DefaultRuleCapacity
	}
	return &RuleStore{capacity: capacity, rules: make(map[string]Rule, capacity)}
}

// Put adds or replaces the rule named name.
func (s *RuleStore) Put(name string, rule Rule) error {
	if len(name) > MaxRuleNameLength {
		return ndnerr.New(ndnerr.KindRuleNameTooLong, "rule name %q exceeds %d bytes", name, MaxRuleNameLength)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[name]; !exists && len(s.rules) >= s.capacity {
		return ndnerr.New(ndnerr.KindRuleStorageFull, "rule storage is full (capacity %d)", s.capacity)
	}
	s.rules[name] = rule
	return nil
}

// Get looks up the rule named name.
func (s *RuleStore) Get(name string) (Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[name]
	return r, ok
}

// Remove deletes the rule named name, if present. Removing an absent
// rule is not an error, matching ndn_rule_storage_remove_rule.
func (s *RuleStore) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rules, name)
}

// Len reports how many rules are currently stored.
func (s *RuleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// ErrRuleReferencingNotImplemented is returned by VerifyNamePair when a
// rule's key pattern is a validated reference to another rule: the
// reference is parsed and capture-count-checked, but following it to
// verify against the referenced rule's key pattern is not implemented,
// matching the original firmware's behavior.
var ErrRuleReferencingNotImplemented = errors.New("trustschema: rule-to-rule referencing is not implemented")

// VerifyNamePair checks that keyName is authorized, under rule, to sign
// data named dataName. It first matches dataName against rule.DataPattern
// to resolve any "(...)" subpattern captures, then matches keyName
// against rule.KeyPattern, substituting the captured spans wherever the
// key pattern contains a \N back-reference.
//
// If rule.KeyPattern is a bare rule reference ("other_rule()"), the
// referenced rule is looked up in store and its capture count validated
// against rule's, but the reference is not actually followed:
// ErrRuleReferencingNotImplemented is returned instead.
func VerifyNamePair(rule Rule, dataName, keyName ndn.Name, store *RuleStore) error {
	dataCaps, err := checkDataNameAgainstPattern(rule.DataPattern, dataName)
	if err != nil {
		return err
	}

	if len(rule.KeyPattern.Components) == 1 && rule.KeyPattern.Components[0].Kind == KindRuleRef {
		refName := rule.KeyPattern.Components[0].RuleRefName
		ref, ok := store.Get(refName)
		if !ok {
			return ndnerr.New(ndnerr.KindNameDidNotMatch, "referenced rule %q not found", refName)
		}
		if ref.DataPattern.NumSubpatternCaptures != rule.DataPattern.NumSubpatternCaptures {
			return ndnerr.New(ndnerr.KindNameDidNotMatch, "rule reference %q has a different number of subpattern captures", refName)
		}
		return ErrRuleReferencingNotImplemented
	}

	return checkKeyNameAgainstPattern(rule.KeyPattern, keyName, rule.DataPattern.NumSubpatternCaptures, dataCaps, dataName)
}
