package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/subpiece/subpiece/errors"
)

func Test_RunJobs(t *testing.T) {
	pool := New(5)

	var jobs []Job
	var completed int32
	for i := 0; i < 15; i++ {
		jobs = append(jobs, func() error {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&completed, 1)
			return nil
		})
	}

	pool.Add(jobs)
	require.NoError(t, pool.Wait())
	require.EqualValues(t, len(jobs), completed, "expected all jobs to be completed")
}

func Test_Reuse(t *testing.T) {
	pool := New(3)

	var completed int32
	job := Job(func() error {
		atomic.AddInt32(&completed, 1)
		return nil
	})

	pool.AddBlocking([]Job{job, job, job})
	require.NoError(t, pool.Wait())

	pool.AddBlocking([]Job{job, job})
	require.NoError(t, pool.Wait())

	require.EqualValues(t, 5, completed)
}

func Test_JobErrors(t *testing.T) {
	pool := New(2)

	pool.Add([]Job{
		func() error { return nil },
		func() error { return errors.New("boom") },
		func() error { return errors.New("bang") },
	})

	err := pool.Wait()
	require.Error(t, err)
	require.Len(t, err.(errors.Errors).Slice(), 2)

	// error state is cleared after Wait
	pool.Add([]Job{func() error { return nil }})
	require.NoError(t, pool.Wait())
}

func Test_StopWait(t *testing.T) {
	pool := New(5)

	var jobs []Job
	for i := 0; i < 15; i++ {
		jobs = append(jobs, func() error {
			time.Sleep(10 * time.Millisecond)
			return nil
		})
	}

	pool.Add(jobs)
	<-time.After(5 * time.Millisecond)
	pool.Stop()
	pool.Wait()
}
