// Package construct is an explicit factory registry: construction is dispatched on the result
// type and the registered parameter signature, captured in typed closures at registration time.
// There's no call-time reflection over arguments; reflect.Type only serves as the map key.
package construct

import (
	"fmt"
	"reflect"

	"github.com/anacrolix/sync"
	"github.com/pkg/errors"
)

var (
	// No factory registered for the requested type at all.
	ErrNoFactory = errors.New("no factory for type")
	// Factories exist for the type but none accepts the supplied arguments.
	ErrNoMatch = errors.New("no factory matches arguments")
)

// FactoryError wraps a failure raised inside a matched factory.
type FactoryError struct {
	Type reflect.Type
	Err  error
}

func (me *FactoryError) Error() string {
	return fmt.Sprintf("constructing %v: %v", me.Type, me.Err)
}

func (me *FactoryError) Unwrap() error {
	return me.Err
}

type entry struct {
	arity int
	// Reports ok false when the argument types don't satisfy this factory's signature.
	invoke func(args []any) (ret any, ok bool, err error)
}

// Registry maps result types to explicitly registered factories. The zero value is ready to use.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type][]entry
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (me *Registry) add(t reflect.Type, e entry) {
	me.mu.Lock()
	defer me.mu.Unlock()
	if me.entries == nil {
		me.entries = make(map[reflect.Type][]entry)
	}
	me.entries[t] = append(me.entries[t], e)
}

// Register0 registers a niladic factory for T.
func Register0[T any](r *Registry, fn func() (T, error)) {
	r.add(typeOf[T](), entry{
		arity: 0,
		invoke: func([]any) (any, bool, error) {
			v, err := fn()
			return v, true, err
		},
	})
}

// Register1 registers a unary factory for T.
func Register1[T, A any](r *Registry, fn func(A) (T, error)) {
	r.add(typeOf[T](), entry{
		arity: 1,
		invoke: func(args []any) (any, bool, error) {
			a, ok := args[0].(A)
			if !ok {
				return nil, false, nil
			}
			v, err := fn(a)
			return v, true, err
		},
	})
}

// Register2 registers a binary factory for T.
func Register2[T, A, B any](r *Registry, fn func(A, B) (T, error)) {
	r.add(typeOf[T](), entry{
		arity: 2,
		invoke: func(args []any) (any, bool, error) {
			a, aOk := args[0].(A)
			b, bOk := args[1].(B)
			if !aOk || !bOk {
				return nil, false, nil
			}
			v, err := fn(a, b)
			return v, true, err
		},
	})
}

// Register3 registers a ternary factory for T.
func Register3[T, A, B, C any](r *Registry, fn func(A, B, C) (T, error)) {
	r.add(typeOf[T](), entry{
		arity: 3,
		invoke: func(args []any) (any, bool, error) {
			a, aOk := args[0].(A)
			b, bOk := args[1].(B)
			c, cOk := args[2].(C)
			if !aOk || !bOk || !cOk {
				return nil, false, nil
			}
			v, err := fn(a, b, c)
			return v, true, err
		},
	})
}

// New constructs a T using the first registered factory whose parameter signature matches args.
// A matched factory's own failure comes back wrapped in *FactoryError; signature misses surface
// as ErrNoMatch, and a type with no registrations as ErrNoFactory.
func New[T any](r *Registry, args ...any) (ret T, err error) {
	t := typeOf[T]()
	r.mu.RLock()
	entries := r.entries[t]
	r.mu.RUnlock()
	if len(entries) == 0 {
		err = errors.Wrapf(ErrNoFactory, "%v", t)
		return
	}
	for _, e := range entries {
		if e.arity != len(args) {
			continue
		}
		v, ok, factoryErr := e.invoke(args)
		if !ok {
			continue
		}
		if factoryErr != nil {
			err = &FactoryError{Type: t, Err: factoryErr}
			return
		}
		// A factory for an interface type may legitimately return an untyped nil.
		ret, _ = v.(T)
		return
	}
	err = errors.Wrapf(ErrNoMatch, "%v with %d args", t, len(args))
	return
}
