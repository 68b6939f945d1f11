package transaction

import (
	"strings"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/pkg/errors"
)

// Request describes one entry function call. FunctionArguments are already BCS
// encoded. Expiry is overwritten by the submitter on every call.
type Request struct {
	ModuleAddress     string
	FunctionName      string
	TypeArguments     []string
	FunctionArguments [][]byte
	SenderAddress     string
	Expiry            time.Time
}

// Function is the fully qualified name, address::module::function.
func (r Request) Function() string {
	return r.ModuleAddress + "::" + r.FunctionName
}

func (r Request) payload() (aptos.TransactionPayload, error) {
	var moduleAddress aptos.AccountAddress
	if err := moduleAddress.ParseStringRelaxed(r.ModuleAddress); err != nil {
		return aptos.TransactionPayload{}, errors.Wrapf(err, "invalid module address %q", r.ModuleAddress)
	}

	moduleName, functionName, ok := strings.Cut(r.FunctionName, "::")
	if !ok || moduleName == "" || functionName == "" || strings.Contains(functionName, "::") {
		return aptos.TransactionPayload{}, errors.Errorf("function name %q is not module::function", r.FunctionName)
	}

	typeArguments := make([]aptos.TypeTag, 0, len(r.TypeArguments))
	for _, typeArgument := range r.TypeArguments {
		tag, err := aptos.ParseTypeTag(typeArgument)
		if err != nil {
			return aptos.TransactionPayload{}, errors.Wrapf(err, "invalid type argument %q", typeArgument)
		}
		typeArguments = append(typeArguments, *tag)
	}

	return aptos.TransactionPayload{
		Payload: &aptos.EntryFunction{
			Module: aptos.ModuleId{
				Address: moduleAddress,
				Name:    moduleName,
			},
			Function: functionName,
			ArgTypes: typeArguments,
			Args:     r.FunctionArguments,
		},
	}, nil
}
