package wipe

import (
	"crypto/rand"
	"fmt"
	"sync"
)

// BufferPool управляет пулом буферов для оптимизации памяти
type BufferPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var globalBufferPool = &BufferPool{
	pools: make(map[int]*sync.Pool),
}

// GetBuffer получает буфер из пула или создает новый
func GetBuffer(size int) []byte {
	if size <= 0 {
		return nil
	}

	return globalBufferPool.getBuffer(size)
}

// PutBuffer возвращает буфер в пул
func PutBuffer(buf []byte) {
	if cap(buf) == 0 {
		return
	}

	globalBufferPool.putBuffer(buf)
}

// getBuffer получает буфер нужного размера
func (bp *BufferPool) getBuffer(size int) []byte {
	poolSize := bp.getPoolSize(size)

	bp.mu.RLock()
	pool, exists := bp.pools[poolSize]
	bp.mu.RUnlock()

	if !exists {
		bp.mu.Lock()
		// Double-check
		pool, exists = bp.pools[poolSize]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					b := make([]byte, poolSize)
					return &b
				},
			}
			bp.pools[poolSize] = pool
		}
		bp.mu.Unlock()
	}

	buf := *pool.Get().(*[]byte)
	return buf[:size]
}

// putBuffer возвращает буфер в соответствующий пул
func (bp *BufferPool) putBuffer(buf []byte) {
	capacity := cap(buf)
	poolSize := bp.getPoolSize(capacity)
	if poolSize != capacity {
		return // чужой буфер
	}

	bp.mu.RLock()
	pool, exists := bp.pools[poolSize]
	bp.mu.RUnlock()

	if exists {
		// Содержимое буфера могло быть копией данных файла
		buf = buf[:capacity]
		clear(buf)
		pool.Put(&buf)
	}
}

// getPoolSize определяет размер пула для буфера
func (bp *BufferPool) getPoolSize(size int) int {
	sizes := []int{1024, 4096, 16384, 65536, 262144, 1048576, 4194304, 16777216}

	for _, poolSize := range sizes {
		if size <= poolSize {
			return poolSize
		}
	}

	// Если размер больше максимального, округляем до 4KB
	return ((size + 4095) / 4096) * 4096
}

// FillPattern заполняет буфер паттерном с учётом абсолютного смещения в файле.
// buf[i] = pattern[(offset+i) % len(pattern)], поэтому запись чанками даёт
// те же байты, что и одна запись всего файла.
func FillPattern(buf []byte, pattern []byte, offset int64) {
	if len(buf) == 0 || len(pattern) == 0 {
		return
	}

	phase := int(offset % int64(len(pattern)))
	// Сначала один полный период, повёрнутый на фазу; дальше удвоение копированием
	n := copy(buf, pattern[phase:])
	n += copy(buf[n:], pattern[:phase])
	for n < len(buf) {
		n += copy(buf[n:], buf[:n])
	}
}

// FillRandom заполняет буфер криптографически стойкими случайными данными
func FillRandom(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("ошибка генерации случайных данных: %w", err)
	}

	return nil
}
