package hashgo_test

import (
	"errors"
	"fmt"

	"github.com/hupe1980/hashgo"
)

func ExampleNewUint() {
	t, _ := hashgo.NewUint(64)
	defer func() { _ = t.Destroy(hashgo.ReleaseValues) }()

	_ = t.Set(42, []byte("hello"))

	v, _ := t.Get(42)
	fmt.Println(string(v.([]byte)))
	// Output: hello
}

func ExampleNewBytes() {
	t, _ := hashgo.NewBytes(64)
	defer func() { _ = t.Destroy(hashgo.ReleaseValues) }()

	key := []byte("alpha")
	_ = t.Set(key, []byte{1, 2, 3})

	// The table copies keys: the caller's buffer can be reused.
	key[0] = 'X'

	_, err := t.Get([]byte("alpha"))
	fmt.Println(err == nil)
	// Output: true
}

func ExampleTable_Values() {
	t, _ := hashgo.NewUint(64)
	defer func() { _ = t.Destroy(hashgo.ReleaseValues) }()

	_ = t.Set(1, []byte("a"))
	_ = t.Set(2, []byte("b"))

	snap, _ := t.Values()
	fmt.Println(snap.Len())

	_ = snap.Release()
	err := snap.Release()
	fmt.Println(errors.Is(err, hashgo.ErrSnapshotNotFound))
	// Output:
	// 2
	// true
}

func ExampleTable_SetRaw() {
	type session struct{ user string }

	t, _ := hashgo.NewUint(64)
	// The table never owned the sessions, so keep them on destroy.
	defer func() { _ = t.Destroy(hashgo.KeepValues) }()

	s := &session{user: "ada"}
	_ = t.SetRaw(7, s)

	v, _ := t.Get(7)
	fmt.Println(v.(*session).user)
	// Output: ada
}
