package cluster

import (
	"testing"

	"github.com/oxbowdb/oxbow/executor"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

func TestResources_AssignAndComplete(t *testing.T) {
	Convey("Given a registered executor with 4 task slots", t, func() {
		r := NewResources()
		So(r.Register(executor.Data{
			ExecutorID:         "exec-1",
			TotalTaskSlots:     4,
			AvailableTaskSlots: 4,
		}), ShouldBeNil)

		holdsInvariant := func(d executor.Data) {
			So(d.AvailableTaskSlots, ShouldBeLessThanOrEqualTo, d.TotalTaskSlots)
		}

		Convey("When the scheduler assigns 3 tasks", func() {
			for _, expected := range []uint32{3, 2, 1} {
				d, err := r.Apply(executor.DataChange{ExecutorID: "exec-1", TaskSlots: -1})
				So(err, ShouldBeNil)
				So(d.AvailableTaskSlots, ShouldEqual, expected)
				holdsInvariant(d)
			}

			Convey("And one task completes", func() {
				d, err := r.Apply(executor.DataChange{ExecutorID: "exec-1", TaskSlots: +1})
				So(err, ShouldBeNil)
				So(d.AvailableTaskSlots, ShouldEqual, 2)
				holdsInvariant(d)
			})
		})

		Convey("When more slots are freed than were consumed", func() {
			_, err := r.Apply(executor.DataChange{ExecutorID: "exec-1", TaskSlots: +1})
			So(err, ShouldNotBeNil)

			Convey("The table is left untouched", func() {
				d, ok := r.Get("exec-1")
				So(ok, ShouldBeTrue)
				So(d.AvailableTaskSlots, ShouldEqual, 4)
			})
		})

		Convey("When all slots are consumed", func() {
			for i := 0; i < 4; i++ {
				_, err := r.Apply(executor.DataChange{ExecutorID: "exec-1", TaskSlots: -1})
				So(err, ShouldBeNil)
			}

			Convey("Consuming one more fails and leaves the count at zero", func() {
				_, err := r.Apply(executor.DataChange{ExecutorID: "exec-1", TaskSlots: -1})
				So(err, ShouldNotBeNil)

				d, _ := r.Get("exec-1")
				So(d.AvailableTaskSlots, ShouldEqual, 0)
			})
		})
	})
}

func TestResources_Register(t *testing.T) {
	r := NewResources()

	err := r.Register(executor.Data{
		ExecutorID:         "exec-1",
		TotalTaskSlots:     4,
		AvailableTaskSlots: 5,
	})
	require.ErrorIs(t, err, ErrSlotOverflow)

	_, err = r.Apply(executor.DataChange{ExecutorID: "unknown", TaskSlots: 1})
	require.ErrorIs(t, err, ErrExecutorNotFound)
}

func TestResources_List(t *testing.T) {
	r := NewResources()
	for _, id := range []string{"exec-3", "exec-1", "exec-2"} {
		require.NoError(t, r.Register(executor.Data{
			ExecutorID:         id,
			TotalTaskSlots:     4,
			AvailableTaskSlots: 4,
		}))
	}

	list := r.List()
	require.Len(t, list, 3)
	require.Equal(t, "exec-1", list[0].ExecutorID)
	require.Equal(t, "exec-2", list[1].ExecutorID)
	require.Equal(t, "exec-3", list[2].ExecutorID)

	r.Remove("exec-2")
	require.Len(t, r.List(), 2)
}
