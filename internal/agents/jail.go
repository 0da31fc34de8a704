package agents

// Jail holds arrested citizens in admission order.
type Jail struct {
	capacity int
	inmates  []*Citizen
	arrests  int
}

// NewJail creates an empty jail holding at most capacity citizens.
func NewJail(capacity int) *Jail {
	return &Jail{capacity: capacity}
}

// Capacity returns the maximum number of inmates.
func (j *Jail) Capacity() int {
	return j.capacity
}

// HasRoom reports whether another citizen can be admitted.
func (j *Jail) HasRoom() bool {
	return len(j.inmates) < j.capacity
}

// Len returns the number of citizens currently held.
func (j *Jail) Len() int {
	return len(j.inmates)
}

// Arrests returns the number of arrests made since the run began.
func (j *Jail) Arrests() int {
	return j.arrests
}

// Inmates returns the held citizens in admission order. The slice is shared;
// callers must not modify it.
func (j *Jail) Inmates() []*Citizen {
	return j.inmates
}

// Admit takes c into custody with the given sentence. It refuses when the jail
// is full or c is already held.
func (j *Jail) Admit(c *Citizen, sentence int) bool {
	if !j.HasRoom() || c.custody {
		return false
	}
	if sentence < 0 {
		sentence = 0
	}
	c.JailSentence = sentence
	c.custody = true
	j.inmates = append(j.inmates, c)
	j.arrests++
	return true
}

// Release drops every inmate for which done returns true, preserving the order
// of the rest. Released citizens leave custody as Quiescent.
func (j *Jail) Release(done func(c *Citizen) bool) []*Citizen {
	var freed []*Citizen
	kept := j.inmates[:0]
	for _, c := range j.inmates {
		if done(c) {
			c.custody = false
			c.JailSentence = 0
			c.Condition = Quiescent
			freed = append(freed, c)
			continue
		}
		kept = append(kept, c)
	}
	// Clear the tail so released citizens are not retained by the backing array.
	for i := len(kept); i < len(j.inmates); i++ {
		j.inmates[i] = nil
	}
	j.inmates = kept
	return freed
}
