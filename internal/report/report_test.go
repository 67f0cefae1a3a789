package report_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bubblesim/internal/dynamo"
	"github.com/san-kum/bubblesim/internal/experiment"
	"github.com/san-kum/bubblesim/internal/physics"
	"github.com/san-kum/bubblesim/internal/report"
)

func fakeRun(method string, order int, v, t float64, steps int) experiment.Run {
	traj := &dynamo.Trajectory{
		Xs: []float64{0, t / 2, t},
		Ys: []float64{0, v / 2, v},
	}
	return experiment.Run{
		Method:     method,
		Order:      order,
		Trajectory: traj,
		Summary: dynamo.Summary{
			Final:     dynamo.Sample{X: t, Y: v},
			Steps:     steps,
			Converged: true,
		},
		Elapsed: 1500 * time.Microsecond,
	}
}

var _ = Describe("Reporter", func() {
	var (
		buf  *bytes.Buffer
		r    *report.Reporter
		runs []experiment.Run
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		r = report.New(buf)
		runs = []experiment.Run{
			fakeRun("euler", 1, 1.25, 1.2345678e-7, 123),
			fakeRun("heun", 2, 1.3, 9.5e-8, 95),
			fakeRun("rk4", 4, 1.3, 9.1e-8, 91),
		}
	})

	Describe("Nanoseconds", func() {
		It("rounds to four decimals", func() {
			Expect(report.Nanoseconds(1.2345678e-7)).To(BeNumerically("~", 123.4568, 1e-9))
		})

		It("keeps zero", func() {
			Expect(report.Nanoseconds(0)).To(BeZero())
		})
	})

	Describe("Summary", func() {
		It("prints one velocity line and one time line per method", func() {
			r.Summary(runs, 1e-5)
			out := buf.String()

			Expect(out).To(ContainSubstring("Velocidade limite usando RK1:"))
			Expect(out).To(ContainSubstring("Velocidade limite usando RK2:"))
			Expect(out).To(ContainSubstring("Velocidade limite usando RK4:"))
			Expect(out).To(ContainSubstring("Precisão: 1e-05mm/s"))
			Expect(out).To(ContainSubstring("Tempo até atingir a velocidade limite (RK1): 123.4568ns"))
			Expect(out).To(ContainSubstring("Tempo até atingir a velocidade limite (RK4): 91ns"))
		})
	})

	Describe("Table", func() {
		It("lists every run with its order and step count", func() {
			Expect(r.Table(runs, physics.NewBubble())).To(Succeed())
			out := buf.String()

			Expect(out).To(ContainSubstring("method"))
			Expect(out).To(ContainSubstring("euler"))
			Expect(out).To(ContainSubstring("1.25000000"))
			Expect(out).To(ContainSubstring("123.4568"))
			Expect(out).To(ContainSubstring("1.5ms"))
			Expect(out).To(ContainSubstring("analytic v*:"))
		})

		It("omits the analytic line without a model", func() {
			Expect(r.Table(runs, nil)).To(Succeed())
			Expect(buf.String()).NotTo(ContainSubstring("analytic"))
		})
	})

	Describe("Progress", func() {
		It("shows the fraction of the terminal velocity reached", func() {
			r.Progress(runs, 1.3)
			Expect(buf.String()).To(ContainSubstring("100.00%"))
		})

		It("skips runs without a trajectory", func() {
			run := runs[0]
			run.Trajectory = nil
			r.Progress([]experiment.Run{run}, 1.3)
			Expect(buf.String()).To(BeEmpty())
		})
	})

	Describe("Timing", func() {
		It("is silent unless verbose", func() {
			r.Timing(runs)
			Expect(buf.String()).To(BeEmpty())
		})

		It("prints wall time per method when verbose", func() {
			r.Verbose = true
			r.Timing(runs)
			Expect(buf.String()).To(ContainSubstring("95 steps in 1.5ms"))
		})
	})

	It("prints failures", func() {
		r.Failure(errors.New("heun: boom"))
		Expect(buf.String()).To(ContainSubstring("heun: boom"))
	})
})
