package ingest

import (
	"context"
	"os"
	"strconv"
	"time"

	"commonyouth/internal/logger"
)

// nextMondayAt：计算下一次周一指定小时的时间点（不含当前已过时的当周）
// 约束：基于传入时区 loc 与整点 hour；仅前推至未来时间
func nextMondayAt(now time.Time, loc *time.Location, hour int) time.Time {
	now = now.In(loc)
	for i := 0; i <= 7; i++ {
		d := now.AddDate(0, 0, i)
		if d.Weekday() == time.Monday {
			t := time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, loc)
			if t.After(now) {
				return t
			}
		}
	}
	d := now.AddDate(0, 0, 7)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, loc)
}

// StartWeekly：在曼谷时间每周一 3:00 运行 job
// 背景：地名与省界数据更新很慢，周级刷新足够；错误由日志记录，任务继续调度
// 约束：INGEST_HOUR 覆盖小时（整数）；ctx 取消后退出
func StartWeekly(ctx context.Context, job func(context.Context) error) {
	l := logger.L()
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		loc = time.FixedZone("ICT", 7*3600)
	}
	hour := 3
	if h := os.Getenv("INGEST_HOUR"); h != "" {
		if n, err := strconv.Atoi(h); err == nil && n >= 0 && n < 24 {
			hour = n
		}
	}
	next := nextMondayAt(time.Now(), loc, hour)
	l.Info("ingest_scheduled", "next", next)
	go func() {
		for {
			t := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
			if err := job(ctx); err != nil {
				l.Error("ingest_error", "err", err)
			}
			next = next.AddDate(0, 0, 7)
		}
	}()
}
