package coordinator

import (
	gocontext "context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestLocalMemoryCoordinator_Get(t *testing.T) {
	Convey("Given LocalMemoryCoordinator", t, func() {
		crd := NewLocalMemory()
		ctx := gocontext.Background()
		So(crd.Put(ctx, "testKey", "testValue"), ShouldBeNil)

		Convey("It should retrieve item using Get", func() {
			var val string
			err := crd.Get(ctx, "testKey", &val)
			So(err, ShouldBeNil)
			So(val, ShouldEqual, "testValue")
		})

		Convey("It should return ErrNotFound for a missing key", func() {
			var val string
			So(crd.Get(ctx, "missing", &val), ShouldEqual, ErrNotFound)
		})
	})
}

func TestLocalMemoryCoordinator_Scan(t *testing.T) {
	Convey("Given LocalMemoryCoordinator", t, func() {
		crd := NewLocalMemory()
		ctx := gocontext.Background()
		So(crd.Put(ctx, "testKey", "testValue"), ShouldBeNil)
		So(crd.Put(ctx, "testKey2", "testValue"), ShouldBeNil)
		So(crd.Put(ctx, "testKey1", "testValue"), ShouldBeNil)
		So(crd.Put(ctx, "jestKey1", "testValue1"), ShouldBeNil)

		Convey("It should retrieve items under prefix ordered by key", func() {
			items, err := crd.Scan(ctx, "testKey")
			So(err, ShouldBeNil)

			So(items, ShouldHaveLength, 3)
			So(items[0].Key, ShouldEqual, "testKey")
			So(items[1].Key, ShouldEqual, "testKey1")
			So(items[2].Key, ShouldEqual, "testKey2")
		})
	})
}

func TestLocalMemoryCoordinator_TTL(t *testing.T) {
	Convey("Given LocalMemoryCoordinator with TTL keys", t, func() {
		crd := NewLocalMemory()
		ctx := gocontext.Background()

		So(crd.Put(ctx, "testKey1", "testValue1", WithTTL(200*time.Millisecond)), ShouldBeNil)
		So(crd.Put(ctx, "testKey2", "testValue1", WithTTL(200*time.Millisecond)), ShouldBeNil)

		Convey("It should be retrieved within TTL", func() {
			items, err := crd.Scan(ctx, "testKey")
			So(err, ShouldBeNil)

			So(items, ShouldHaveLength, 2)
			So(items[0].Key, ShouldEqual, "testKey1")
			So(items[1].Key, ShouldEqual, "testKey2")
		})

		Convey("It should be gone after TTL", func() {
			time.Sleep(250 * time.Millisecond)
			items, err := crd.Scan(ctx, "testKey")
			So(err, ShouldBeNil)
			So(items, ShouldHaveLength, 0)

			var val string
			So(crd.Get(ctx, "testKey1", &val), ShouldEqual, ErrNotFound)
		})
	})
}

func TestLocalMemoryCoordinator_Delete(t *testing.T) {
	Convey("Given LocalMemoryCoordinator", t, func() {
		crd := NewLocalMemory()
		ctx := gocontext.Background()
		So(crd.Put(ctx, "testKey1", "testValue"), ShouldBeNil)
		So(crd.Put(ctx, "testKey2", "testValue"), ShouldBeNil)
		So(crd.Put(ctx, "jestKey1", "testValue"), ShouldBeNil)

		Convey("It should delete all keys under prefix", func() {
			deleted, err := crd.Delete(ctx, "testKey")
			So(err, ShouldBeNil)
			So(deleted, ShouldEqual, 2)

			items, err := crd.Scan(ctx, "")
			So(err, ShouldBeNil)
			So(items, ShouldHaveLength, 1)
		})
	})
}

func TestLocalMemoryCoordinator_Watch(t *testing.T) {
	defer goleak.VerifyNone(t)

	crd := NewLocalMemory()
	ctx, cancel := gocontext.WithCancel(gocontext.Background())
	defer cancel()

	events := crd.Watch(ctx, "watched")
	if err := crd.Put(ctx, "watched/key1", "v"); err != nil {
		t.Fatal(err)
	}
	if err := crd.Put(ctx, "other/key1", "v"); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-events:
		if event.Type != PutEvent || event.Item.Key != "watched/key1" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for watch event")
	}

	if err := crd.Close(); err != nil {
		t.Fatal(err)
	}
	for range events {
	}
}
