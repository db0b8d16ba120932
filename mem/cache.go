package mem

import (
	"log"
)

// CacheState is the lookup state machine. A hit resolves in two cycles
// (find, tag check), a miss takes one more for the allocation.
type CacheState int

//go:generate go tool stringer -linecomment -type=CacheState
const (
	CACHE_IDLE  = CacheState(0) // idle
	CACHE_CHECK = CacheState(1) // check
	CACHE_ALLOC = CacheState(2) // alloc
)

// Block is one cache block tag. A method occupies exactly one block;
// the tag is the method's origin and length in main memory. Valid goes
// high only once the refill completed, so a half-loaded block can
// never hit.
type Block struct {
	Origin uint32
	Length uint16
	Valid  bool
}

// Cache is the method cache: a fixed set of equal-sized blocks over the
// backing bytecode RAM, replaced round-robin.
type Cache struct {
	jbc    *Jbc
	blocks []Block
	next   int // round-robin replacement cursor

	state   CacheState
	rdy     bool
	inCache bool
	sel     int // block of the last resolved find

	findOrigin uint32
	findLen    uint16

	Verbose bool
}

func NewCache(jbc *Jbc, blocks int) *Cache {
	c := &Cache{jbc: jbc, blocks: make([]Block, blocks)}
	c.rdy = true
	return c
}

func (c *Cache) Reset() {
	for n := range c.blocks {
		c.blocks[n] = Block{}
	}
	c.next = 0
	c.state = CACHE_IDLE
	c.rdy = true
	c.inCache = false
	c.sel = 0
}

// BlockWords is the capacity of one block in words.
func (c *Cache) BlockWords() uint16 {
	return uint16(c.jbc.Words() / len(c.blocks))
}

func (c *Cache) State() CacheState { return c.state }
func (c *Cache) Rdy() bool         { return c.rdy }
func (c *Cache) InCache() bool     { return c.inCache }
func (c *Cache) Block() int        { return c.sel }

// Bcstart is the word offset of the resolved block in the backing RAM;
// the byte address for the fetch stage is four times this.
func (c *Cache) Bcstart() uint16 {
	return uint16(c.sel) * c.BlockWords()
}

// FetchBlock is the block the given byte address falls in. The memory
// unit uses it to reject a refill of the block being fetched from.
func (c *Cache) FetchBlock(jpc uint16) int {
	return int(jpc/4/c.BlockWords()) % len(c.blocks)
}

// Find starts a lookup for the method at origin. The method must fit a
// block; anything longer is a configuration error, caught here rather
// than as a corrupted refill later.
func (c *Cache) Find(origin uint32, length uint16) error {
	if length > c.BlockWords() {
		return ErrMethodTooLong{Origin: origin, Length: length, Capacity: c.BlockWords()}
	}
	c.findOrigin = origin
	c.findLen = length
	c.state = CACHE_CHECK
	c.rdy = false
	return nil
}

func (c *Cache) Tick() {
	switch c.state {
	case CACHE_CHECK:
		for n, blk := range c.blocks {
			if blk.Valid && blk.Origin == c.findOrigin && blk.Length == c.findLen {
				c.sel = n
				c.inCache = true
				c.rdy = true
				c.state = CACHE_IDLE
				return
			}
		}
		c.state = CACHE_ALLOC
	case CACHE_ALLOC:
		c.sel = c.next
		c.next = (c.next + 1) % len(c.blocks)
		c.blocks[c.sel] = Block{Origin: c.findOrigin, Length: c.findLen}
		c.inCache = false
		c.rdy = true
		c.state = CACHE_IDLE
		if c.Verbose {
			log.Printf("mem: cache miss 0x%08x +%d -> block %d", c.findOrigin, c.findLen, c.sel)
		}
	}
}

// LoadDone validates the allocated block once the refill has written
// the last word.
func (c *Cache) LoadDone() {
	c.blocks[c.sel].Valid = true
}
