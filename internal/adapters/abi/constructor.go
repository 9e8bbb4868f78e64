package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/deployer/internal/domain/models"
)

// ConstructorEncoder packs command line arguments for a contract constructor
type ConstructorEncoder struct{}

// NewConstructorEncoder creates a new constructor encoder
func NewConstructorEncoder() *ConstructorEncoder {
	return &ConstructorEncoder{}
}

// EncodeConstructorArgs converts args to the constructor's input types and ABI-encodes them.
// The result is appended to the creation bytecode by the caller.
func (e *ConstructorEncoder) EncodeConstructorArgs(artifact *models.Artifact, args []string) ([]byte, error) {
	inputs := artifact.ConstructorInputs()
	if len(inputs) != len(args) {
		return nil, fmt.Errorf("%s constructor takes %d argument(s) (%s), got %d",
			artifact.Name, len(inputs), signature(inputs), len(args))
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	values := make([]any, len(inputs))
	for i, input := range inputs {
		v, err := convertArg(input.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s %s): %w", i, input.Type.String(), input.Name, err)
		}
		values[i] = v
	}

	packed, err := inputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}
	return packed, nil
}

func signature(inputs abi.Arguments) string {
	types := make([]string, len(inputs))
	for i, input := range inputs {
		types[i] = input.Type.String()
	}
	return strings.Join(types, ",")
}

// convertArg turns a string into the Go value abi.Arguments.Pack expects for t
func convertArg(t abi.Type, raw string) (any, error) {
	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("invalid address %q", raw)
		}
		return common.HexToAddress(raw), nil

	case abi.BoolTy:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", raw)
		}
		return b, nil

	case abi.StringTy:
		return raw, nil

	case abi.BytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid hex bytes %q: %w", raw, err)
		}
		return b, nil

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid hex bytes %q: %w", raw, err)
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("%d bytes do not fit in bytes%d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.UintTy, abi.IntTy:
		return convertInteger(t, raw)

	default:
		return nil, fmt.Errorf("unsupported constructor parameter type %s", t.String())
	}
}

func convertInteger(t abi.Type, raw string) (any, error) {
	n, ok := new(big.Int).SetString(strings.ReplaceAll(raw, "_", ""), 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%s out of range for uint%d", raw, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s out of range for int%d", raw, t.Size)
		}
	}

	// sizes 8..64 pack from native Go integers, everything else from *big.Int
	goType := t.GetType()
	if goType.Kind() == reflect.Ptr {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}
