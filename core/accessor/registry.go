package accessor

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Contract is a deployed contract known by name
type Contract struct {
	Name    string
	Address ecommon.Address
	ABI     abi.ABI
}

// Method returns the abi method of the name
func (c *Contract) Method(name string) (abi.Method, error) {
	m, has := c.ABI.Methods[name]
	if !has {
		return abi.Method{}, errors.Wrapf(ErrUnknownMethod, "%s.%s", c.Name, name)
	}
	return m, nil
}

// Registry maps contract names to their address and abi
type Registry struct {
	sync.RWMutex
	contracts map[string]*Contract
}

func NewRegistry() *Registry {
	return &Registry{
		contracts: map[string]*Contract{},
	}
}

// Register adds or replaces the contract of the name
func (r *Registry) Register(name string, addr ecommon.Address, parsed abi.ABI) *Contract {
	r.Lock()
	defer r.Unlock()

	c := &Contract{
		Name:    name,
		Address: addr,
		ABI:     parsed,
	}
	r.contracts[name] = c
	return c
}

// RegisterJSON parses the abi definition and registers the contract
func (r *Registry) RegisterJSON(name string, addr string, abiJSON string) (*Contract, error) {
	if !ecommon.IsHexAddress(addr) {
		return nil, errors.Errorf("invalid address of %s: %s", name, addr)
	}
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, errors.Wrapf(err, "parse abi of %s", name)
	}
	return r.Register(name, ecommon.HexToAddress(addr), parsed), nil
}

// Contract returns the registered contract of the name
func (r *Registry) Contract(name string) (*Contract, error) {
	r.RLock()
	defer r.RUnlock()

	c, has := r.contracts[name]
	if !has {
		return nil, errors.Wrap(ErrUnknownContract, name)
	}
	return c, nil
}

// Names returns the registered contract names
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()

	names := make([]string, 0, len(r.contracts))
	for k := range r.contracts {
		names = append(names, k)
	}
	return names
}
