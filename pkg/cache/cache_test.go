package cache

import (
	"errors"
	"testing"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint([]string{"f1", "f2"}, true, false)
	b := Fingerprint([]string{"f1", "f2"}, true, false)
	if a != b {
		t.Errorf("same inputs produced different fingerprints: %s vs %s", a, b)
	}
}

func TestFingerprint_SensitiveToInputs(t *testing.T) {
	base := Fingerprint([]string{"f1", "f2"}, true)

	variants := []string{
		Fingerprint([]string{"f2", "f1"}, true),  // порядок файлов
		Fingerprint([]string{"f1", "f2"}, false), // флаги
		Fingerprint([]string{"f1"}, true),        // состав
		Fingerprint([]string{"f1f2", ""}, true),  // склейка токенов
	}

	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base fingerprint", i)
		}
	}
}

func TestGetOrCompute(t *testing.T) {
	c := New(10)
	calls := 0

	compute := func() (any, error) {
		calls++
		return "result", nil
	}

	for i := 0; i < 3; i++ {
		value, err := c.GetOrCompute("key", compute)
		if err != nil {
			t.Fatalf("GetOrCompute failed: %v", err)
		}
		if value != "result" {
			t.Errorf("unexpected value: %v", value)
		}
	}

	// Вычисление выполняется один раз, дальше отдается кеш
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}

func TestGetOrCompute_ErrorNotCached(t *testing.T) {
	c := New(10)
	calls := 0

	failing := func() (any, error) {
		calls++
		return nil, errors.New("boom")
	}

	for i := 0; i < 2; i++ {
		if _, err := c.GetOrCompute("key", failing); err == nil {
			t.Fatal("expected error")
		}
	}

	if calls != 2 {
		t.Errorf("compute called %d times, want 2 (errors must not be cached)", calls)
	}
}

func TestLRU_Eviction(t *testing.T) {
	c := New(2)
	c.Put("a", 1)
	c.Put("b", 2)

	// Обращение к "a" делает "b" самым старым
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a must be present")
	}

	c.Put("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should survive eviction")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestPurge(t *testing.T) {
	c := New(2)
	c.Put("a", 1)
	c.Purge()

	if c.Len() != 0 {
		t.Errorf("len after purge = %d, want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("value survived purge")
	}
}
