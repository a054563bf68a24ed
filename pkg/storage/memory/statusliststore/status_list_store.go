/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statusliststore

import (
	"context"
	"sync"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/cslmanager"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/statuslist"
)

type list struct {
	free []int
	bits *statuslist.BitString
}

// Store keeps status lists in process memory. Lists never expire.
type Store struct {
	mu     sync.Mutex
	latest string
	lists  map[string]*list
}

func New() *Store {
	return &Store{lists: map[string]*list{}}
}

func (s *Store) LatestListID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest == "" {
		return "", cslmanager.ErrDataNotFound
	}

	return s.latest, nil
}

func (s *Store) TakeIndex(_ context.Context, listID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[listID]
	if !ok || len(l.free) == 0 {
		return 0, cslmanager.ErrListExhausted
	}

	idx := l.free[0]
	l.free = l.free[1:]

	return idx, nil
}

func (s *Store) CreateList(_ context.Context, previousListID, listID string, size int, freeIndices []int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest != previousListID {
		return false, nil
	}

	s.lists[listID] = &list{
		free: append([]int(nil), freeIndices...),
		bits: statuslist.NewBitString(size),
	}
	s.latest = listID

	return true, nil
}

func (s *Store) SetStatus(_ context.Context, listID string, index int, revoked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[listID]
	if !ok {
		return cslmanager.ErrDataNotFound
	}

	return l.bits.Set(index, revoked)
}

func (s *Store) Get(_ context.Context, listID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[listID]
	if !ok {
		return nil, cslmanager.ErrDataNotFound
	}

	return append([]byte(nil), l.bits.Bytes()...), nil
}
