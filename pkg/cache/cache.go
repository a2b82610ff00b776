package cache

import (
	"container/list"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// Fingerprint строит ключ кеша из упорядоченного набора идентификаторов
// файлов и флагов предобработки. Использует xxh3 (64-bit) — тот же хеш,
// что и контрольные суммы данных.
func Fingerprint(tokens []string, flags ...bool) string {
	h := xxh3.New()
	for _, token := range tokens {
		h.WriteString(token)
		h.Write([]byte{0}) // Разделитель против склейки соседних токенов
	}
	for _, flag := range flags {
		if flag {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{2})
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// Cache - LRU кеш результатов вычислений, ограниченный по размеру.
// Явная замена неявного декоратора мемоизации: ключ строится вызывающим
// через Fingerprint, вычисление передается в GetOrCompute.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

type entry struct {
	key   string
	value any
}

// New создает кеш на capacity записей (минимум 1)
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get возвращает значение по ключу, отмечая запись как недавно использованную
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*entry).value, true
}

// Put сохраняет значение, вытесняя самую старую запись при переполнении
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, value)
}

// GetOrCompute возвращает закешированное значение или вычисляет и
// сохраняет новое. Ошибка вычисления не кешируется.
func (c *Cache) GetOrCompute(key string, compute func() (any, error)) (any, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Повторная проверка: значение могло появиться, пока шло вычисление
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*entry).value, nil
	}
	c.put(key, value)
	return value, nil
}

// Len возвращает количество записей
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge очищает кеш
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

func (c *Cache) put(key string, value any) {
	if elem, ok := c.entries[key]; ok {
		elem.Value.(*entry).value = value
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, value: value})

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry).key)
		}
	}
}
