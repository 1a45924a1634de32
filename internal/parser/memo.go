package parser

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/brn/yatsc-sub000/internal/logger"
)

// memoKind distinguishes the handful of speculative productions spec.md
// §4.3 calls out as worth memoizing: arrow-parameter-list lookahead and
// type-argument-list lookahead are both expensive to re-attempt on every
// failed guess in a deeply nested expression.
type memoKind uint8

const (
	memoArrowParams memoKind = iota
	memoTypeArgs
)

type memoKey struct {
	pos  int32
	kind memoKind
}

// memoResult caches a completed speculative attempt: whether it succeeded,
// and the scanner state to resume from (spec.md §4.3 "caches a prior parse
// attempt and its resulting scanner/parser state, enabling backtracking
// without re-scanning").
type memoResult struct {
	ok       bool
	resumeAt snapshot
}

// memoTable is the LRU cache backing the above, grounded on the library
// choice SPEC_FULL.md's domain stack makes for the parser's memoization
// layer (hashicorp/golang-lru/v2, also used by the rest of the pack for
// exactly this "bounded cache of expensive recomputation" shape).
type memoTable struct {
	cache *lru.Cache[memoKey, memoResult]
}

func newMemoTable(size int) (*memoTable, error) {
	c, err := lru.New[memoKey, memoResult](size)
	if err != nil {
		return nil, err
	}
	return &memoTable{cache: c}, nil
}

func (m *memoTable) get(pos int32, kind memoKind) (memoResult, bool) {
	if m == nil || m.cache == nil {
		return memoResult{}, false
	}
	return m.cache.Get(memoKey{pos: pos, kind: kind})
}

func (m *memoTable) put(pos int32, kind memoKind, res memoResult) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.Add(memoKey{pos: pos, kind: kind}, res)
}

// memoized wraps a speculative parse in the cache: a cache hit replays the
// scanner/parser state directly instead of re-running fn; a miss runs fn and
// remembers the outcome (plus the post-attempt state when it succeeded) so a
// later identical attempt at the same position is O(1). Parser diagnostics
// raised by fn reach the log only when the attempt succeeds.
func (p *Parser) memoized(kind memoKind, fn func() bool) bool {
	startPos := p.tok.Range.Loc.Start
	if res, found := p.memo.get(startPos, kind); found {
		if res.ok {
			p.restore(res.resumeAt)
		}
		return res.ok
	}
	before := p.save()
	realLog, attemptLog := p.log, logger.NewLog()
	p.log = attemptLog
	ok := fn()
	p.log = realLog
	after := p.save()
	if ok {
		for _, m := range attemptLog.Done() {
			realLog.AddMsg(m)
		}
		p.memo.put(startPos, kind, memoResult{ok: true, resumeAt: after})
	} else {
		p.restore(before)
		p.memo.put(startPos, kind, memoResult{ok: false})
	}
	return ok
}
