//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

type itemEvalParam struct {
	idx      int
	ctx      context.Context
	it       item
	engine   *Engine
	outcomes []*outcome
	wg       *sync.WaitGroup
}

func (p *itemEvalParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.it = item{}
	p.engine = nil
	p.outcomes = nil
	p.wg = nil
}

var itemEvalParamPool = &sync.Pool{
	New: func() any { return new(itemEvalParam) },
}

func newItemEvalPool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*itemEvalParam)
		if !ok {
			panic("item evaluation pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			itemEvalParamPool.Put(param)
		}()
		param.outcomes[param.idx] = param.engine.evaluateItem(param.ctx, param.it)
	})
	if err != nil {
		return nil, fmt.Errorf("create item evaluation pool: %w", err)
	}
	return pool, nil
}

// evaluateParallel fans the items out over the pool. Outcomes land at
// the item's position so rows can still be appended in dataset order.
func (e *Engine) evaluateParallel(ctx context.Context, items []item) []*outcome {
	outcomes := make([]*outcome, len(items))
	var wg sync.WaitGroup
	for idx, it := range items {
		wg.Add(1)
		param := itemEvalParamPool.Get().(*itemEvalParam)
		param.idx = idx
		param.ctx = ctx
		param.it = it
		param.engine = e
		param.outcomes = outcomes
		param.wg = &wg
		if err := e.pool.Invoke(param); err != nil {
			wg.Done()
			outcomes[idx] = &outcome{err: fmt.Errorf("submit item %d for evaluation: %w", it.index, err)}
			param.reset()
			itemEvalParamPool.Put(param)
		}
	}
	wg.Wait()
	return outcomes
}
