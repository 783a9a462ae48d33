package evictingqueue

import "testing"

func TestSimpleAdd(t *testing.T) {
	queue := New[string](3)

	if size := queue.Len(); size != 0 {
		t.Errorf("The queue should have a length of 0, but instead had a length of %d,", size)
	}

	queue.Add("One")
	queue.Add("Two")
	queue.Add("Three")

	if size := queue.Len(); size != 3 {
		t.Errorf("The queue should have a length of 3, but instead had a length of %d,", size)
	}

	if val, _ := queue.Get(0); val != "One" {
		t.Errorf("The first expected element was not in the queue at the expected position.")
	}

	if val, _ := queue.Get(2); val != "Three" {
		t.Errorf("The third expected element was not in the queue at the expected position.")
	}
}

func TestEvictingAdd(t *testing.T) {
	queue := New[string](3)

	queue.Add("One")
	queue.Add("Two")
	queue.Add("Three")
	queue.Add("Four")

	if size := queue.Len(); size != 3 {
		t.Errorf("The queue should have a length of 3, but instead had a length of %d,", size)
	}

	if val, _ := queue.Get(0); val != "Two" {
		t.Errorf("The first expected element was not in the queue at the expected position.")
	}

	if queue.Contains("One") {
		t.Errorf("The evicted element should no longer be in the queue.")
	}

	if !queue.Contains("Four") {
		t.Errorf("The newest element should be in the queue.")
	}
}

func TestGetOutOfRange(t *testing.T) {
	queue := New[int](2)
	queue.Add(1)

	if _, ok := queue.Get(1); ok {
		t.Errorf("Index 1 of a single element queue should be out of range.")
	}

	if _, ok := queue.Get(-1); ok {
		t.Errorf("Negative indexes should be out of range.")
	}
}

func TestAddIfAbsent(t *testing.T) {
	queue := New[string](2)

	if !queue.AddIfAbsent("a") {
		t.Errorf("The first add of an element should succeed.")
	}

	if queue.AddIfAbsent("a") {
		t.Errorf("The second add of the same element should be refused.")
	}

	queue.AddIfAbsent("b")
	queue.AddIfAbsent("c")

	if !queue.AddIfAbsent("a") {
		t.Errorf("An element that has been evicted should be accepted again.")
	}
}
