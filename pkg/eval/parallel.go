package eval

import (
	"runtime"
	"sync"

	"github.com/strand-sh/strand/pkg/eval/vals"
)

// parEachCmd is the parallel counterpart of each: elements are processed by
// a bounded worker pool in unspecified temporal order, but the output keeps
// the input's index order exactly.
type parEachCmd struct{}

func (parEachCmd) Name() string { return "par-each" }

func (parEachCmd) Signature() *Signature {
	return &Signature{
		Name: "par-each",
		Desc: "Map a closure over the input on a bounded worker pool, preserving input order.",
		Positional: []PositionalArg{
			{Name: "body", Shape: ShapeClosure},
		},
		Named: []Flag{
			{Long: "threads", Short: "t", Shape: ShapeInt, Desc: "pool size, defaults to the CPU count"},
		},
		InOut: []InOut{{In: ShapeList, Out: ShapeList}},
	}
}

func (parEachCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	body, err := call.ReqClosure(es, st, 0)
	if err != nil {
		return nil, err
	}
	threads := runtime.NumCPU()
	if v, ok, err := call.GetFlag(es, st, "threads"); err != nil {
		return nil, err
	} else if ok {
		n, err := vals.ToInt("threads", v)
		if err != nil {
			return nil, errorp(call, err)
		}
		if n < 1 {
			n = 1
		}
		threads = int(n)
	}

	type job struct {
		index int
		elem  vals.Value
	}
	jobs := make(chan job)

	var (
		mu      sync.Mutex
		results []vals.Value
		firstErr error
	)
	setResult := func(i int, v vals.Value) {
		mu.Lock()
		defer mu.Unlock()
		for len(results) <= i {
			results = append(results, nil)
		}
		results[i] = v
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		// Each worker forks its own stack; stacks are never shared between
		// concurrently running branches.
		workerSt := st.EnterScope()
		go func(workerSt *Stack) {
			defer wg.Done()
			for j := range jobs {
				if failed() {
					continue
				}
				v, err := runClosureOn(es, workerSt, body, j.elem, call.Ranging)
				if err != nil {
					setErr(err)
					continue
				}
				setResult(j.index, v)
			}
		}(workerSt)
	}

	src := input.Iter(call.Ranging, es.Interrupt())
	index := 0
	for {
		elem, ok := src.Next()
		if !ok {
			break
		}
		if errv, isErr := elem.(vals.Error); isErr {
			setErr(errorp(elem, errv.Err))
			break
		}
		jobs <- job{index, elem}
		index++
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// Interruption may have stopped the feeder before some indices were
	// produced; keep only the contiguous completed prefix.
	items := make([]vals.Value, 0, len(results))
	for _, v := range results {
		if v == nil {
			break
		}
		items = append(items, v)
	}
	return ValueData{Val: vals.List{Items: items, Ranging: call.Ranging}, Meta: input.Metadata()}, nil
}
