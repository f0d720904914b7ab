package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aidanlsb/opz/internal/config"
	"github.com/aidanlsb/opz/internal/itemcache"
	"github.com/aidanlsb/opz/internal/model"
	"github.com/aidanlsb/opz/internal/opcli"
	"github.com/aidanlsb/opz/internal/resolver"
	"github.com/aidanlsb/opz/internal/ui"
)

// newVault builds the op boundary. Tests replace it with a fake.
var newVault = func(cfg *config.Config, l *zap.Logger) opcli.Vault {
	return opcli.New(cfg.GetOpPath(), opcli.WithLogger(l))
}

// session is the state of one invocation: the op boundary and the listing
// cache in front of it.
type session struct {
	vault  opcli.Vault
	cache  *itemcache.Cache
	filter string
}

func newSession() *session {
	c := getConfig()
	v := newVault(c, zlog)
	return &session{
		vault: v,
		cache: itemcache.New(v.List,
			itemcache.WithTTL(c.GetCacheTTL()),
			itemcache.WithLogger(zlog)),
		filter: getVaultFilter(),
	}
}

// candidates lists items in the session's vault filter, with a spinner on
// interactive terminals.
func (s *session) candidates() ([]model.ItemSummary, error) {
	var spinner *ui.Spinner
	if !isJSONOutput() {
		spinner = ui.NewSpinner("Listing items...")
		spinner.Start()
		defer spinner.Stop()
	}
	return s.cache.GetOrFetch(s.filter)
}

// resolveItems resolves each query and fetches the items in query order. An
// item named twice is fetched once but appears twice, so later mentions still
// win when keys collide.
func (s *session) resolveItems(queries []string) ([]model.Item, error) {
	candidates, err := s.candidates()
	if err != nil {
		return nil, err
	}

	summaries, err := resolver.ResolveMany(candidates, queries)
	if err != nil {
		return nil, err
	}

	fetched := make(map[string]model.Item, len(summaries))
	items := make([]model.Item, 0, len(summaries))
	for i, sum := range summaries {
		item, ok := fetched[sum.ID]
		if !ok {
			item, err = s.vault.Get(sum.ID)
			if err != nil {
				return nil, fmt.Errorf("get item %q: %w", sum.Title, err)
			}
			// The listing is authoritative for vault identity.
			if sum.VaultID != "" {
				item.VaultID = sum.VaultID
			}
			if item.VaultName == "" {
				item.VaultName = sum.VaultName
			}
			fetched[sum.ID] = item
		}
		if sum.Title != queries[i] {
			zlog.Debug("fuzzy match", zap.String("query", queries[i]), zap.String("title", sum.Title))
			if !isJSONOutput() {
				fmt.Fprintln(stderr, ui.Hint(fmt.Sprintf("Using %q for %q", sum.Title, queries[i])))
			}
		}
		items = append(items, item)
	}
	return items, nil
}
