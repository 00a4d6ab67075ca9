/**
 *
 * 元件序列：按流向排列的内联元件，由会话独占。
 * 支持任意位置插入、删除，以及与相邻元件交换位置。
 *
 */

package sequence

import (
	"errors"

	"hydro/model"
)

var ErrOutOfRange = errors.New("position out of range")

type Sequence interface {
	// 序列长度
	Size() int

	// 获取对应位置的元件
	Get(pos int) (model.InlineComponent, error)

	// 在 pos 之前插入，pos == Size() 时追加到末尾
	Insert(pos int, c model.InlineComponent) error

	// 在序列头部增加一个元件
	AddFirst(c model.InlineComponent)

	// 在序列结尾增加一个元件
	AddLast(c model.InlineComponent)

	// 删除对应位置的元件
	Remove(pos int) (model.InlineComponent, error)

	// 交换两个位置的元件
	Swap(i, j int) error

	// 与前一个元件交换
	MoveUp(pos int) error

	// 与后一个元件交换
	MoveDown(pos int) error

	// 按顺序遍历
	Traverse(f func(pos int, c *model.InlineComponent))

	// 当前元件的副本
	Items() []model.InlineComponent

	// 清空
	Reset()

	IsEmpty() bool
}
