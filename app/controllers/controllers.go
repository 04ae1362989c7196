// Package controllers adapts HTTP requests to the storefront services.
// Controllers only bind input and shape output; authorization lives in the
// services and the route guards.
package controllers

import "strconv"

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err == nil && n == 0 {
		err = strconv.ErrRange
	}
	return uint(n), err
}
