package sequence

import (
	"hydro/model"
)

// 元件数量很少，直接用切片实现
type ArrSequence struct {
	items []model.InlineComponent
}

func NewArrSequence(items []model.InlineComponent) *ArrSequence {
	s := &ArrSequence{items: make([]model.InlineComponent, 0, len(items))}
	s.items = append(s.items, items...)
	return s
}

func (s *ArrSequence) Size() int {
	return len(s.items)
}

func (s *ArrSequence) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *ArrSequence) Get(pos int) (model.InlineComponent, error) {
	if pos < 0 || pos >= len(s.items) {
		return model.InlineComponent{}, ErrOutOfRange
	}
	return s.items[pos], nil
}

func (s *ArrSequence) Insert(pos int, c model.InlineComponent) error {
	if pos < 0 || pos > len(s.items) {
		return ErrOutOfRange
	}
	s.items = append(s.items, model.InlineComponent{})
	copy(s.items[pos+1:], s.items[pos:])
	s.items[pos] = c
	return nil
}

func (s *ArrSequence) AddFirst(c model.InlineComponent) {
	_ = s.Insert(0, c)
}

func (s *ArrSequence) AddLast(c model.InlineComponent) {
	s.items = append(s.items, c)
}

func (s *ArrSequence) Remove(pos int) (model.InlineComponent, error) {
	if pos < 0 || pos >= len(s.items) {
		return model.InlineComponent{}, ErrOutOfRange
	}
	c := s.items[pos]
	copy(s.items[pos:], s.items[pos+1:])
	s.items[len(s.items)-1] = model.InlineComponent{}
	s.items = s.items[:len(s.items)-1]
	return c, nil
}

func (s *ArrSequence) Swap(i, j int) error {
	if i < 0 || i >= len(s.items) || j < 0 || j >= len(s.items) {
		return ErrOutOfRange
	}
	s.items[i], s.items[j] = s.items[j], s.items[i]
	return nil
}

func (s *ArrSequence) MoveUp(pos int) error {
	return s.Swap(pos, pos-1)
}

func (s *ArrSequence) MoveDown(pos int) error {
	return s.Swap(pos, pos+1)
}

func (s *ArrSequence) Traverse(f func(pos int, c *model.InlineComponent)) {
	for i := range s.items {
		f(i, &s.items[i])
	}
}

func (s *ArrSequence) Items() []model.InlineComponent {
	items := make([]model.InlineComponent, len(s.items))
	copy(items, s.items)
	return items
}

func (s *ArrSequence) Reset() {
	s.items = s.items[:0]
}
