package server

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ByLCY/codedoc/project"
)

// Store 在内存中按名称保存项目，进程退出即丢失。
// 每个项目有独立的锁，对同一项目的修改串行执行，不同项目互不阻塞。
type Store struct {
	mu       sync.Mutex
	projects map[string]*entry
}

type entry struct {
	mu sync.Mutex
	p  *project.Project
}

func NewStore() *Store {
	return &Store{projects: map[string]*entry{}}
}

// Put 保存项目，同名项目被替换。
func (s *Store) Put(p *project.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.Title] = &entry{p: p}
}

// Delete 删除项目，返回是否存在。
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.projects[name]
	delete(s.projects, name)
	return ok
}

// Names 返回按名称排序的项目列表。
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.projects))
	for name := range s.projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With 在持有项目锁的情况下执行 fn。
func (s *Store) With(name string, fn func(p *project.Project) error) error {
	s.mu.Lock()
	e, ok := s.projects[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: 项目 %q", project.ErrNotFound, name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.p)
}
