package bot

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mexbot/gomex/pkg/logger"
	"github.com/mexbot/gomex/pkg/ratelimit"
	"github.com/mexbot/gomex/pkg/sigchan"
)

// ErrStop 任务完成的哨兵错误。Step 返回它时循环正常退出。
var ErrStop = errors.New("task finished")

// Task 循环执行的任务。Step 执行一轮迭代。
type Task interface {
	Name() string
	Step(ctx context.Context) error
}

// Runner 把任务跑成一个带请求预算的循环：
// 每轮之后按预算休眠，迭代失败拉长间隔，成功后恢复。
// ctx 取消时在休眠中立即退出，不等满当前间隔。
type Runner struct {
	task  Task
	pacer *ratelimit.Pacer
	kick  *sigchan.Chan
	log   *logrus.Entry
}

// NewRunner 创建循环执行器
func NewRunner(task Task, budget ratelimit.Budget) *Runner {
	return &Runner{
		task:  task,
		pacer: ratelimit.NewPacer(budget),
		kick:  sigchan.New(1),
		log:   logger.WithField("task", task.Name()),
	}
}

// Kick 提示循环跳过当前休眠立即执行下一轮（非阻塞）
func (r *Runner) Kick() {
	r.kick.Emit()
}

// Run 运行循环直到任务完成或 ctx 取消
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("循环启动")
	for {
		if err := ctx.Err(); err != nil {
			r.log.Info("循环退出")
			return err
		}
		err := r.task.Step(ctx)
		switch {
		case errors.Is(err, ErrStop):
			r.log.Info("任务完成，循环退出")
			return nil
		case err != nil:
			r.pacer.Backoff()
			r.log.Warnf("迭代失败（间隔放大 %.0f 倍）: %v", r.pacer.Multiplier(), err)
		default:
			r.pacer.Reset()
		}
		if err := r.sleep(ctx, r.pacer.Delay()); err != nil {
			r.log.Info("循环退出")
			return err
		}
	}
}

// sleep 休眠 d，可被 ctx 取消或 Kick 打断
func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.kick.C():
		return nil
	case <-timer.C:
		return nil
	}
}
