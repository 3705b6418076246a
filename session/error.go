package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime"

	"github.com/MixinNetwork/amm.one/swap"
	"github.com/bugsnag/bugsnag-go"
)

type Error struct {
	Status      int    `json:"status"`
	Code        int    `json:"code"`
	Description string `json:"description"`
	trace       string
}

func (sessionError Error) Error() string {
	str, err := json.Marshal(sessionError)
	if err != nil {
		log.Panicln(err)
	}
	return string(str)
}

func ParseError(err string) (Error, bool) {
	var sessionErr Error
	json.Unmarshal([]byte(err), &sessionErr)
	return sessionErr, sessionErr.Code > 0 && sessionErr.Description != ""
}

func BadRequestError(ctx context.Context) Error {
	description := "The request body can’t be parsed as valid data."
	return createError(ctx, http.StatusAccepted, http.StatusBadRequest, description, nil)
}

func NotFoundError(ctx context.Context) Error {
	description := "The endpoint is not found."
	return createError(ctx, http.StatusAccepted, http.StatusNotFound, description, nil)
}

func TooManyRequestsError(ctx context.Context) Error {
	description := http.StatusText(http.StatusTooManyRequests)
	return createError(ctx, http.StatusAccepted, http.StatusTooManyRequests, description, nil)
}

func ServerError(ctx context.Context, err error) Error {
	description := http.StatusText(http.StatusInternalServerError)
	return createError(ctx, http.StatusInternalServerError, http.StatusInternalServerError, description, err)
}

func PoolNotFoundError(ctx context.Context, poolId string) Error {
	description := fmt.Sprintf("Pool %s not found.", poolId)
	return createError(ctx, http.StatusAccepted, 20001, description, nil)
}

func SwapRejectedError(ctx context.Context, reason string, maxInput float64) Error {
	description := fmt.Sprintf("%s, max input %g.", reason, maxInput)
	return createError(ctx, http.StatusAccepted, 20004, description, nil)
}

func TokenNotFoundError(ctx context.Context, base, quote string) Error {
	description := fmt.Sprintf("Token %s or %s not found.", base, quote)
	return createError(ctx, http.StatusAccepted, 20005, description, nil)
}

// EngineError passes engine errors through with their own code, anything
// else is a server error.
func EngineError(ctx context.Context, err error) Error {
	var engineErr *swap.Error
	if errors.As(err, &engineErr) {
		return createError(ctx, http.StatusAccepted, engineErr.Code, engineErr.Description, nil)
	}
	return ServerError(ctx, err)
}

func createError(ctx context.Context, status, code int, description string, err error) Error {
	pc, file, line, _ := runtime.Caller(2)
	funcName := runtime.FuncForPC(pc).Name()
	trace := fmt.Sprintf("[ERROR %d] %s\n%s:%d", code, description, file, line)
	if err != nil {
		if sessionError, ok := err.(Error); ok {
			trace = trace + "\n" + sessionError.trace
		} else {
			trace = trace + "\n" + err.Error()
		}
	}

	if ctx != nil && status == http.StatusInternalServerError {
		class := bugsnag.ErrorClass{Name: fmt.Sprintf("%s$%d", funcName, code)}
		rawData := []interface{}{bugsnag.SeverityError, class}
		meta := bugsnag.MetaData{}
		if r := Request(ctx); r != nil {
			rawData = append(rawData, r)
			if RequestBody(ctx) != "" {
				meta["body"] = map[string]interface{}{"data": RequestBody(ctx)}
			}
		}
		rawData = append(rawData, meta)
		bugsnag.Notify(errors.New(trace), rawData...)
	}
	if ctx != nil {
		if logger := Logger(ctx); logger != nil {
			logger.Error(trace)
		}
	}

	return Error{
		Status:      status,
		Code:        code,
		Description: description,
		trace:       trace,
	}
}
