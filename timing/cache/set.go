package cache

import "github.com/sirupsen/logrus"

// line is one way of a set. address is the address that last filled the line
// and is the target of the write-back when a dirty line is evicted.
type line struct {
	isValid   bool
	isDirty   bool
	lastVisit uint64
	tag       uint64
	address   uint64
}

// set groups the lines that share an index. lastVisit increases on every
// lookup and insertion and stamps the touched line, so the valid line with the
// smallest stamp is the least recently used one.
type set struct {
	lastVisit uint64
	lines     []line
}

func newSet(ways uint64) set {
	return set{lines: make([]line, ways)}
}

// find returns the valid line holding tag and refreshes its recency, or nil.
func (s *set) find(tag uint64) *line {
	s.lastVisit++

	for i := range s.lines {
		l := &s.lines[i]
		if l.isValid && l.tag == tag {
			l.lastVisit = s.lastVisit
			return l
		}
	}

	return nil
}

// victim returns the first invalid line, or else the least recently used one.
func (s *set) victim() *line {
	var lru *line

	for i := range s.lines {
		l := &s.lines[i]
		if !l.isValid {
			return l
		}
		if lru == nil || l.lastVisit < lru.lastVisit {
			lru = l
		}
	}

	if lru == nil {
		logrus.Panicf("cache: no eviction victim in a set of %d ways", len(s.lines))
	}

	return lru
}

// install overwrites slot with a clean line for tag. The tag must not already
// be resident in the set.
func (s *set) install(slot *line, tag, address uint64) {
	for i := range s.lines {
		l := &s.lines[i]
		if l.isValid && l.tag == tag {
			logrus.Panicf("cache: tag 0x%x is already resident in its set", tag)
		}
	}

	s.lastVisit++
	*slot = line{
		isValid:   true,
		lastVisit: s.lastVisit,
		tag:       tag,
		address:   address,
	}
}
