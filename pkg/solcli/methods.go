package solcli

import (
	"encoding/json"

	"github.com/solwidget/solw/common"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	return &d, json.Unmarshal(resp, &d)
}

// Login stores the given SolAPI refresh token in the daemon and kicks
// off the first refresh.
func (c *Client) Login(refreshToken string) (*common.LoginResponse, error) {
	return invoke[common.LoginResponse](c, common.UPDATE_LOGIN, &common.LoginParams{
		RefreshToken: refreshToken,
	})
}

// Logout deletes the stored token and all cached schedule state.
func (c *Client) Logout() (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_LOGOUT, nil)
}

// Refresh requests an immediate schedule refresh. The connection stays
// attached for the completion push; follow with Listen to wait for it.
func (c *Client) Refresh() (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_REFRESH, nil)
}

// Navigate moves the day cursor in the given direction ("next" or
// "previous") and returns the resulting schedule snapshot.
func (c *Client) Navigate(direction string) (*common.ScheduleResponse, error) {
	return invoke[common.ScheduleResponse](c, common.UPDATE_NAVIGATE, &common.NavigateParams{
		Direction: direction,
	})
}

// GetSchedule returns the current schedule snapshot.
func (c *Client) GetSchedule() (*common.ScheduleResponse, error) {
	return invoke[common.ScheduleResponse](c, common.UPDATE_GET_SCHEDULE, &common.ScheduleParams{})
}

// Status returns the daemon's login and refresh status.
func (c *Client) Status() (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_STATUS, nil)
}

// Version returns the daemon's version string.
func (c *Client) Version() (*common.VersionResponse, error) {
	return invoke[common.VersionResponse](c, common.UPDATE_VERSION, nil)
}

// Stop asks the daemon to shut down.
func (c *Client) Stop() error {
	_, err := c.invoke(common.UPDATE_STOP, nil)
	return err
}
