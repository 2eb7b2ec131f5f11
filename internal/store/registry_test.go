package store

import (
	"fmt"
	"sync"
	"testing"

	"inventory/internal/model"
)

func TestRegistry_AddOverwrites(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Add("localhost", model.PropertySet{"os.name": "Linux", "user.name": "root"})
	reg.Add("localhost", model.PropertySet{"os.name": "Darwin"})

	got, ok := reg.Get("localhost")
	if !ok {
		t.Fatalf("entry missing")
	}
	if len(got) != 1 || got["os.name"] != "Darwin" {
		t.Fatalf("props=%v", got)
	}
	if reg.Len() != 1 {
		t.Fatalf("len=%d", reg.Len())
	}
}

func TestRegistry_ListSnapshotIsIsolated(t *testing.T) {
	t.Parallel()

	in := model.PropertySet{"os.name": "Linux"}
	reg := NewRegistry()
	reg.Add("b-host", in)
	reg.Add("a-host", model.PropertySet{"os.name": "Windows"})
	in["os.name"] = "mutated"

	list := reg.List()
	if len(list) != 2 {
		t.Fatalf("entries=%d", len(list))
	}
	if list[0].Hostname != "a-host" || list[1].Hostname != "b-host" {
		t.Fatalf("order=%s,%s", list[0].Hostname, list[1].Hostname)
	}
	if list[1].Properties["os.name"] != "Linux" {
		t.Fatalf("caller mutation leaked: %v", list[1].Properties)
	}

	list[0].Properties["os.name"] = "changed"
	got, _ := reg.Get("a-host")
	if got["os.name"] != "Windows" {
		t.Fatalf("snapshot mutation leaked: %v", got)
	}
}

func TestRegistry_Reset(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Reset()
	if n := len(reg.List()); n != 0 {
		t.Fatalf("entries=%d", n)
	}

	reg.Add("h1", model.PropertySet{"k": "v"})
	reg.Add("h2", model.PropertySet{"k": "v"})
	reg.Reset()
	if n := len(reg.List()); n != 0 {
		t.Fatalf("entries after reset=%d", n)
	}
	if _, ok := reg.Get("h1"); ok {
		t.Fatalf("h1 survived reset")
	}
}

func TestRegistry_ConcurrentAdds(t *testing.T) {
	t.Parallel()

	const n = 64
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			host := fmt.Sprintf("host-%02d", i)
			reg.Add(host, model.PropertySet{"id": host})
			_ = reg.List()
		}(i)
	}
	wg.Wait()

	list := reg.List()
	if len(list) != n {
		t.Fatalf("entries=%d", len(list))
	}
	for _, e := range list {
		if e.Properties["id"] != e.Hostname {
			t.Fatalf("entry=%+v", e)
		}
	}
}

func TestRegistry_ResetDuringAdds(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			reg.Add(fmt.Sprintf("h%d", i), model.PropertySet{"k": "v"})
		}(i)
		go func() {
			defer wg.Done()
			reg.Reset()
		}()
	}
	wg.Wait()

	for _, e := range reg.List() {
		if e.Properties["k"] != "v" {
			t.Fatalf("partial entry visible: %+v", e)
		}
	}
	reg.Reset()
	if reg.Len() != 0 {
		t.Fatalf("len=%d", reg.Len())
	}
}
