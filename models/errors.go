package models

// Typed errors carried from services up to the handlers. The helper
// maps each type to its HTTP status, so services never touch status
// codes directly.

type ErrorInvalidArgument struct{ Message string }

func (e ErrorInvalidArgument) Error() string { return e.Message }

type ErrorUnauthorized struct{ Message string }

func (e ErrorUnauthorized) Error() string { return e.Message }

type ErrorForbidden struct{ Message string }

func (e ErrorForbidden) Error() string { return e.Message }

type ErrorNotFound struct{ Message string }

func (e ErrorNotFound) Error() string { return e.Message }

type ErrorConflict struct{ Message string }

func (e ErrorConflict) Error() string { return e.Message }

type ErrorInternalServer struct{ Message string }

func (e ErrorInternalServer) Error() string { return e.Message }
