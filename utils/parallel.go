package utils

import (
	"context"
	"runtime"
	"sync"

	"go.viam.com/utils"
)

// ParallelFactor caps the number of groups GroupWorkParallel splits work into. Tests may lower it
// when heavy fan-out slows the suite down.
var ParallelFactor = defaultParallelFactor()

// defaultParallelFactor uses every proc on small machines and a quarter of them above 32 procs.
func defaultParallelFactor() int {
	procs := runtime.GOMAXPROCS(0)
	if procs <= 0 {
		return 1
	}
	if procs/4 > 8 {
		return procs / 4
	}
	return procs
}

type (
	// BeforeParallelGroupWorkFunc runs once, before any group starts, with the number of groups.
	BeforeParallelGroupWorkFunc func(numGroups int)
	// MemberWorkFunc runs for each work item (member) of a group.
	MemberWorkFunc func(memberNum, workNum int)
	// GroupWorkDoneFunc runs after a group's members finish. It is the place to merge results.
	GroupWorkDoneFunc func()
	// GroupWorkFunc is called once per group with the group's [from, to) range of work items and
	// returns what to run for its members and on completion. Either may be nil.
	GroupWorkFunc func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc)
)

// groupRange splits total items into numGroups contiguous ranges in ascending order, with the
// remainder spread one apiece over the first groups.
func groupRange(groupNum, numGroups, total int) (from, to int) {
	size, extra := total/numGroups, total%numGroups
	from = groupNum*size + MinInt(groupNum, extra)
	to = from + size
	if groupNum < extra {
		to++
	}
	return from, to
}

// GroupWorkParallel runs groupWork over totalSize items in at most ParallelFactor goroutines.
// Because ranges ascend with the group number, a merge that favors lower groups on ties gives
// the same answer as a serial scan. Groups that have not started when ctx is canceled are
// skipped, and ctx's error is returned.
func GroupWorkParallel(ctx context.Context, totalSize int, before BeforeParallelGroupWorkFunc, groupWork GroupWorkFunc) error {
	numGroups := MaxInt(1, MinInt(ParallelFactor, totalSize))
	if before != nil {
		before(numGroups)
	}

	var wg sync.WaitGroup
	wg.Add(numGroups)
	for groupNum := 0; groupNum < numGroups; groupNum++ {
		from, to := groupRange(groupNum, numGroups, totalSize)
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			memberWork, done := groupWork(groupNum, to-from, from, to)
			if memberWork != nil {
				for workNum := from; workNum < to; workNum++ {
					memberWork(workNum-from, workNum)
				}
			}
			if done != nil {
				done()
			}
		})
	}
	wg.Wait()
	return ctx.Err()
}
