package member

import (
	"context"
	"fmt"

	"collectordao/core"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/singleflight"
)

// Cache wraps a member store with a small read-through lru.
func Cache(store core.MemberStore) core.MemberStore {
	return &cacheMemberStore{
		MemberStore: store,
		cache:       gcache.New(2048).LRU().Build(),
		sf:          &singleflight.Group{},
	}
}

type cacheMemberStore struct {
	core.MemberStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheMemberStore) Create(ctx context.Context, tx *db.DB, member *core.Member) error {
	if err := s.MemberStore.Create(ctx, tx, member); err != nil {
		return err
	}

	s.cache.Remove(s.memberKey(member.Address))
	return nil
}

func (s *cacheMemberStore) Find(ctx context.Context, address string) (*core.Member, error) {
	key := s.memberKey(address)
	if v, err := s.cache.Get(key); err == nil {
		if member, ok := v.(*core.Member); ok {
			// callers mutate the result before Update; hand out a copy
			cp := *member
			return &cp, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		member, err := s.MemberStore.Find(ctx, address)
		if err != nil {
			return nil, err
		}

		if member.ID > 0 {
			cp := *member
			s.cache.Set(key, &cp)
		}

		return member, nil
	})
	if err != nil {
		return nil, err
	}

	member := *v.(*core.Member)
	return &member, nil
}

func (s *cacheMemberStore) Update(ctx context.Context, tx *db.DB, member *core.Member, version int64) error {
	if err := s.MemberStore.Update(ctx, tx, member, version); err != nil {
		return err
	}

	s.cache.Remove(s.memberKey(member.Address))
	return nil
}

func (s *cacheMemberStore) memberKey(address string) string {
	return fmt.Sprintf("member:address:%s", address)
}
